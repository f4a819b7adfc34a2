package advertisement

import (
	"context"
	"sort"
	"sync"
)

// InMemoryAdvertisementRepository implements AdvertisementRepository with an
// in-memory map. For tests and local development.
type InMemoryAdvertisementRepository struct {
	mu     sync.Mutex
	ads    map[int64]Advertisement
	nextID int64
}

func NewInMemoryAdvertisementRepository() *InMemoryAdvertisementRepository {
	return &InMemoryAdvertisementRepository{
		ads:    make(map[int64]Advertisement),
		nextID: 1,
	}
}

func (r *InMemoryAdvertisementRepository) Create(ctx context.Context, params CreateAdvertisementParams) (Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ad := Advertisement{
		ID:         r.nextID,
		Title:      params.Title,
		Author:     params.Author,
		ViewsCount: params.ViewsCount,
		Position:   params.Position,
	}
	r.ads[ad.ID] = ad
	r.nextID++
	return ad, nil
}

func (r *InMemoryAdvertisementRepository) GetByID(ctx context.Context, id int64) (Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ad, exists := r.ads[id]
	if !exists {
		return Advertisement{}, ErrAdvertisementNotFound
	}
	return ad, nil
}

func (r *InMemoryAdvertisementRepository) FindAll(ctx context.Context) ([]Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ads := make([]Advertisement, 0, len(r.ads))
	for _, ad := range r.ads {
		ads = append(ads, ad)
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID < ads[j].ID })
	return ads, nil
}

func (r *InMemoryAdvertisementRepository) Update(ctx context.Context, params UpdateAdvertisementParams) (Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ad, exists := r.ads[params.ID]
	if !exists {
		return Advertisement{}, ErrAdvertisementNotFound
	}
	ad.Title = params.Title
	ad.Author = params.Author
	ad.ViewsCount = params.ViewsCount
	ad.Position = params.Position
	r.ads[ad.ID] = ad
	return ad, nil
}

func (r *InMemoryAdvertisementRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ads[id]; !exists {
		return ErrAdvertisementNotFound
	}
	delete(r.ads, id)
	return nil
}
