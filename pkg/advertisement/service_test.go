package advertisement_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-ads/pkg/advertisement"
)

func setup(t *testing.T) *advertisement.Service {
	t.Helper()
	return advertisement.NewService(advertisement.NewInMemoryAdvertisementRepository())
}

func TestCreateAndGet(t *testing.T) {
	svc := setup(t)

	position := int32(3)
	created, err := svc.Create(context.Background(), advertisement.CreateAdvertisementParams{
		Title:    "Bike for sale",
		Author:   "alice",
		Position: &position,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(0), created.ViewsCount)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, advertisement.ErrAdvertisementNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(context.Background(), advertisement.CreateAdvertisementParams{Author: "alice"})
	assert.ErrorIs(t, err, advertisement.ErrInvalidAdvertisement)

	_, err = svc.Create(context.Background(), advertisement.CreateAdvertisementParams{
		Title:  strings.Repeat("x", 101),
		Author: "alice",
	})
	assert.ErrorIs(t, err, advertisement.ErrInvalidAdvertisement)

	_, err = svc.Create(context.Background(), advertisement.CreateAdvertisementParams{Title: "Bike"})
	assert.ErrorIs(t, err, advertisement.ErrInvalidAdvertisement)
}

func TestList(t *testing.T) {
	svc := setup(t)

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), advertisement.CreateAdvertisementParams{
			Title:  title,
			Author: "alice",
		})
		require.NoError(t, err)
	}

	ads, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ads, 3)
	assert.Equal(t, "first", ads[0].Title)
	assert.Equal(t, "third", ads[2].Title)
}

func TestUpdate(t *testing.T) {
	svc := setup(t)

	created, err := svc.Create(context.Background(), advertisement.CreateAdvertisementParams{
		Title:  "Bike for sale",
		Author: "alice",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), advertisement.UpdateAdvertisementParams{
		ID:         created.ID,
		Title:      "Bike sold",
		Author:     "alice",
		ViewsCount: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bike sold", updated.Title)
	assert.Equal(t, int64(7), updated.ViewsCount)

	_, err = svc.Update(context.Background(), advertisement.UpdateAdvertisementParams{
		ID:     999,
		Title:  "ghost",
		Author: "alice",
	})
	assert.ErrorIs(t, err, advertisement.ErrAdvertisementNotFound)
}

func TestDelete(t *testing.T) {
	svc := setup(t)

	created, err := svc.Create(context.Background(), advertisement.CreateAdvertisementParams{
		Title:  "Bike for sale",
		Author: "alice",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, advertisement.ErrAdvertisementNotFound)

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, advertisement.ErrAdvertisementNotFound)
}
