package advertisement

import "context"

// AdvertisementRepository is the persistence surface for advertisements.
type AdvertisementRepository interface {
	Create(ctx context.Context, params CreateAdvertisementParams) (Advertisement, error)
	GetByID(ctx context.Context, id int64) (Advertisement, error)
	FindAll(ctx context.Context) ([]Advertisement, error)
	Update(ctx context.Context, params UpdateAdvertisementParams) (Advertisement, error)
	Delete(ctx context.Context, id int64) error
}
