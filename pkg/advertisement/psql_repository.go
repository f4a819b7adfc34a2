package advertisement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const advertisementColumns = `id, title, author, views_count, position`

// PostgresAdvertisementRepository implements AdvertisementRepository backed
// by PostgreSQL.
type PostgresAdvertisementRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAdvertisementRepository(pool *pgxpool.Pool) *PostgresAdvertisementRepository {
	return &PostgresAdvertisementRepository{pool: pool}
}

func scanAdvertisement(row pgx.Row) (Advertisement, error) {
	var ad Advertisement
	err := row.Scan(&ad.ID, &ad.Title, &ad.Author, &ad.ViewsCount, &ad.Position)
	return ad, err
}

func (r *PostgresAdvertisementRepository) Create(ctx context.Context, params CreateAdvertisementParams) (Advertisement, error) {
	query := `INSERT INTO advertisements (title, author, views_count, position)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + advertisementColumns
	ad, err := scanAdvertisement(r.pool.QueryRow(ctx, query,
		params.Title, params.Author, params.ViewsCount, params.Position))
	if err != nil {
		return Advertisement{}, fmt.Errorf("failed to create advertisement: %w", err)
	}
	return ad, nil
}

func (r *PostgresAdvertisementRepository) GetByID(ctx context.Context, id int64) (Advertisement, error) {
	query := `SELECT ` + advertisementColumns + ` FROM advertisements WHERE id = $1`
	ad, err := scanAdvertisement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Advertisement{}, ErrAdvertisementNotFound
		}
		return Advertisement{}, fmt.Errorf("failed to get advertisement: %w", err)
	}
	return ad, nil
}

func (r *PostgresAdvertisementRepository) FindAll(ctx context.Context) ([]Advertisement, error) {
	query := `SELECT ` + advertisementColumns + ` FROM advertisements ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	defer rows.Close()

	var ads []Advertisement
	for rows.Next() {
		ad, err := scanAdvertisement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advertisement: %w", err)
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

func (r *PostgresAdvertisementRepository) Update(ctx context.Context, params UpdateAdvertisementParams) (Advertisement, error) {
	query := `UPDATE advertisements
		SET title = $2, author = $3, views_count = $4, position = $5
		WHERE id = $1
		RETURNING ` + advertisementColumns
	ad, err := scanAdvertisement(r.pool.QueryRow(ctx, query,
		params.ID, params.Title, params.Author, params.ViewsCount, params.Position))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Advertisement{}, ErrAdvertisementNotFound
		}
		return Advertisement{}, fmt.Errorf("failed to update advertisement: %w", err)
	}
	return ad, nil
}

func (r *PostgresAdvertisementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete advertisement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdvertisementNotFound
	}
	return nil
}
