package login

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tendant/simple-ads/pkg/user"
)

const (
	maxUsernameLength = 30
	maxEmailLength    = 50
	minPasswordLength = 8
)

type Service struct {
	repo user.UserRepository
}

func NewService(repo user.UserRepository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

func validateRegisterParams(params RegisterParams) error {
	switch {
	case params.Username == "":
		return fmt.Errorf("%w: username is required", ErrInvalidRegistration)
	case len(params.Username) > maxUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidRegistration, maxUsernameLength)
	case params.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidRegistration)
	case !strings.Contains(params.Email, "@"):
		return fmt.Errorf("%w: email is not valid", ErrInvalidRegistration)
	case len(params.Email) > maxEmailLength:
		return fmt.Errorf("%w: email must be at most %d characters", ErrInvalidRegistration, maxEmailLength)
	case len(params.Password) < minPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, minPasswordLength)
	}
	return nil
}

// Register creates a new, unverified account.
func (s *Service) Register(ctx context.Context, params RegisterParams) (user.User, error) {
	if err := validateRegisterParams(params); err != nil {
		return user.User{}, err
	}

	hashed, err := HashPassword(params.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, user.CreateUserParams{
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: hashed,
		IsActive:       true,
	})
	if err != nil {
		return user.User{}, err
	}

	slog.Info("Registered user", "user", created.ID, "username", created.Username)
	return created, nil
}

// Login authenticates by username, falling back to email lookup when the
// identifier looks like an email address. Unknown identifier and wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, identifier, password string) (user.User, error) {
	u, err := s.repo.GetByUsername(ctx, identifier)
	if err != nil && strings.Contains(identifier, "@") {
		u, err = s.repo.GetByEmail(ctx, identifier)
	}
	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	match, err := CheckPasswordHash(password, u.HashedPassword)
	if err != nil {
		slog.Error("Failed to verify password hash", "user", u.ID, "err", err)
		return user.User{}, ErrInvalidCredentials
	}
	if !match {
		return user.User{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		return user.User{}, ErrAccountDisabled
	}

	return u, nil
}

// Refresh re-reads the account behind a refresh token so rotated session
// claims carry current flags, and a disabled account cannot refresh.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return user.User{}, ErrAccountDisabled
	}
	return u, nil
}
