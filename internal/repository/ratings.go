package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratemystore/ratemystore/internal/domain"
)

// RatingsRepository provides helpers for store ratings.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// RatingUpsertParams captures the payload required to upsert a rating.
type RatingUpsertParams struct {
	UserID  int64
	StoreID int64
	Value   int16
}

// Upsert inserts or updates a rating and indicates whether it was newly
// created. The conflict target is the (user_id, store_id) primary key, so
// concurrent submissions for the same pair can never produce two rows;
// last writer wins on value and updated_at while created_at is preserved.
func (r *RatingsRepository) Upsert(ctx context.Context, params RatingUpsertParams) (domain.Rating, bool, error) {
	const query = `
        INSERT INTO ratings (user_id, store_id, rating)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id, store_id)
        DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
        RETURNING user_id, store_id, rating, created_at, updated_at, (xmax = 0) AS inserted
    `

	var rating domain.Rating
	var inserted bool
	err := r.pool.QueryRow(ctx, query, params.UserID, params.StoreID, params.Value).Scan(
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, false, ErrNotFound
		}
		return domain.Rating{}, false, err
	}

	return rating, inserted, nil
}

// Aggregate returns the rating average and count for a store. The average is
// 0 when the store has no ratings.
func (r *RatingsRepository) Aggregate(ctx context.Context, storeID int64) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM ratings
        WHERE store_id = $1
    `

	var agg domain.RatingAggregate
	err := r.pool.QueryRow(ctx, query, storeID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// Get retrieves a rating for a specific user/store combination.
func (r *RatingsRepository) Get(ctx context.Context, userID, storeID int64) (domain.Rating, error) {
	const query = `
        SELECT user_id, store_id, rating, created_at, updated_at
        FROM ratings
        WHERE user_id = $1 AND store_id = $2
    `
	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, userID, storeID).Scan(
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// ListForStore returns every rating on a store joined with the rater's name
// and email, newest first. Used for the owner dashboard feed.
func (r *RatingsRepository) ListForStore(ctx context.Context, storeID int64) ([]domain.StoreRater, error) {
	const query = `
        SELECT u.name, u.email, r.rating, r.created_at
        FROM ratings r
        JOIN users u ON u.id = r.user_id
        WHERE r.store_id = $1
        ORDER BY r.created_at DESC, u.id DESC
    `
	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.StoreRater, 0)
	for rows.Next() {
		var rater domain.StoreRater
		if err := rows.Scan(&rater.Name, &rater.Email, &rater.Rating, &rater.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, rater)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
