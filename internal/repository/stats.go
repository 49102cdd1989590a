package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratemystore/ratemystore/internal/domain"
)

// StatsRepository computes the global counters for the admin dashboard.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// Totals returns the user, store, and rating counts in a single round trip.
func (r *StatsRepository) Totals(ctx context.Context) (domain.DashboardStats, error) {
	const query = `
        SELECT (SELECT COUNT(*) FROM users)::int8,
               (SELECT COUNT(*) FROM stores)::int8,
               (SELECT COUNT(*) FROM ratings)::int8
    `
	var stats domain.DashboardStats
	err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalUsers, &stats.TotalStores, &stats.TotalRatings)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
