package advertisement

import (
	"context"
	"fmt"
	"log/slog"
)

const maxTitleLength = 100

type Service struct {
	repo AdvertisementRepository
}

func NewService(repo AdvertisementRepository) *Service {
	return &Service{repo: repo}
}

func validateAdvertisement(title, author string) error {
	switch {
	case title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidAdvertisement)
	case len(title) > maxTitleLength:
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidAdvertisement, maxTitleLength)
	case author == "":
		return fmt.Errorf("%w: author is required", ErrInvalidAdvertisement)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, params CreateAdvertisementParams) (Advertisement, error) {
	if err := validateAdvertisement(params.Title, params.Author); err != nil {
		return Advertisement{}, err
	}
	ad, err := s.repo.Create(ctx, params)
	if err != nil {
		return Advertisement{}, err
	}
	slog.Info("Created advertisement", "id", ad.ID, "title", ad.Title)
	return ad, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Advertisement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Advertisement, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Update(ctx context.Context, params UpdateAdvertisementParams) (Advertisement, error) {
	if err := validateAdvertisement(params.Title, params.Author); err != nil {
		return Advertisement{}, err
	}
	return s.repo.Update(ctx, params)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Deleted advertisement", "id", id)
	return nil
}
