package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratemystore/ratemystore/internal/domain"
)

// StoresRepository provides persistence helpers for store entities and the
// aggregated views built on top of them.
type StoresRepository struct {
	pool *pgxpool.Pool
}

const storeColumns = `
    id,
    name,
    email,
    address,
    owner_id,
    created_at,
    updated_at
`

// StoreCreateParams bundles the fields required to create a store.
type StoreCreateParams struct {
	Name    string
	Email   string
	Address string
	OwnerID int64
}

// StoreListFilters encapsulates the search options for the authenticated
// store listing.
type StoreListFilters struct {
	Name      *string
	Address   *string
	SortBy    string
	SortOrder string
}

// StoreAdminFilters encapsulates the search options for the admin listing.
type StoreAdminFilters struct {
	Name      *string
	Email     *string
	Address   *string
	SortBy    string
	SortOrder string
}

// Aggregate expressions must stay in sync with the GROUP BY of the listing
// queries below.
var (
	storeSortFields = map[string]string{
		"name":           "s.name",
		"address":        "s.address",
		"average_rating": "COALESCE(AVG(r.rating), 0)",
	}
	storeAdminSortFields = map[string]string{
		"name":    "s.name",
		"email":   "s.email",
		"address": "s.address",
		"rating":  "COALESCE(AVG(r.rating), 0)",
	}
)

// Create inserts a new store row and returns the stored entity. Duplicate
// emails yield ErrEmailTaken; an owner that already has a store yields
// ErrOwnerHasStore.
func (r *StoresRepository) Create(ctx context.Context, params StoreCreateParams) (domain.Store, error) {
	query := fmt.Sprintf(`
        INSERT INTO stores (name, email, address, owner_id)
        VALUES ($1,$2,$3,$4)
        RETURNING %s
    `, storeColumns)

	store, err := scanStore(r.pool.QueryRow(ctx, query, params.Name, params.Email, params.Address, params.OwnerID))
	if err != nil {
		if isUniqueViolation(err, "stores_email_key") {
			return domain.Store{}, ErrEmailTaken
		}
		if isUniqueViolation(err, "stores_owner_id_key") {
			return domain.Store{}, ErrOwnerHasStore
		}
		return domain.Store{}, err
	}
	return store, nil
}

// GetByID fetches a store by its identifier.
func (r *StoresRepository) GetByID(ctx context.Context, id int64) (domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)
	store, err := scanStore(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Store{}, ErrNotFound
		}
		return domain.Store{}, err
	}
	return store, nil
}

// GetByOwner fetches the single store assigned to an owner. The owner_id
// unique constraint guarantees at most one row.
func (r *StoresRepository) GetByOwner(ctx context.Context, ownerID int64) (domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE owner_id = $1`, storeColumns)
	store, err := scanStore(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Store{}, ErrNotFound
		}
		return domain.Store{}, err
	}
	return store, nil
}

// ListWithRatings returns the stores matching the filters, each with its
// rating aggregate and the viewer's own rating. The per-viewer rating is
// resolved in the same query through a second join on ratings so one round
// trip serves the whole listing.
func (r *StoresRepository) ListWithRatings(ctx context.Context, viewerID int64, filters StoreListFilters) ([]domain.StoreView, error) {
	where := make([]string, 0)
	args := []interface{}{viewerID}
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Name != nil && strings.TrimSpace(*filters.Name) != "" {
		where = append(where, fmt.Sprintf("s.name ILIKE %s", arg("%"+strings.TrimSpace(*filters.Name)+"%")))
	}
	if filters.Address != nil && strings.TrimSpace(*filters.Address) != "" {
		where = append(where, fmt.Sprintf("s.address ILIKE %s", arg("%"+strings.TrimSpace(*filters.Address)+"%")))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
        SELECT s.id, s.name, s.email, s.address,
               COALESCE(ROUND(AVG(r.rating)::numeric, 2), 0)::float8 AS average_rating,
               COUNT(r.rating)::int8 AS total_ratings,
               ur.rating AS user_rating
        FROM stores s
        LEFT JOIN ratings r ON r.store_id = s.id
        LEFT JOIN ratings ur ON ur.store_id = s.id AND ur.user_id = $1
    `)
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" GROUP BY s.id, s.name, s.email, s.address, ur.rating")
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderClause(storeSortFields, filters.SortBy, filters.SortOrder, "s.name"))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.StoreView, 0)
	for rows.Next() {
		var view domain.StoreView
		if err := rows.Scan(&view.ID, &view.Name, &view.Email, &view.Address, &view.AverageRating, &view.TotalRatings, &view.UserRating); err != nil {
			return nil, err
		}
		items = append(items, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAdmin returns the stores matching the filters with owner names and
// rating aggregates for the admin view.
func (r *StoresRepository) ListAdmin(ctx context.Context, filters StoreAdminFilters) ([]domain.StoreSummary, error) {
	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Name != nil && strings.TrimSpace(*filters.Name) != "" {
		where = append(where, fmt.Sprintf("s.name ILIKE %s", arg("%"+strings.TrimSpace(*filters.Name)+"%")))
	}
	if filters.Email != nil && strings.TrimSpace(*filters.Email) != "" {
		where = append(where, fmt.Sprintf("s.email ILIKE %s", arg("%"+strings.TrimSpace(*filters.Email)+"%")))
	}
	if filters.Address != nil && strings.TrimSpace(*filters.Address) != "" {
		where = append(where, fmt.Sprintf("s.address ILIKE %s", arg("%"+strings.TrimSpace(*filters.Address)+"%")))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
        SELECT s.id, s.name, s.email, s.address,
               u.name AS owner_name,
               COALESCE(ROUND(AVG(r.rating)::numeric, 2), 0)::float8 AS average_rating,
               COUNT(r.rating)::int8 AS total_ratings
        FROM stores s
        JOIN users u ON u.id = s.owner_id
        LEFT JOIN ratings r ON r.store_id = s.id
    `)
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" GROUP BY s.id, s.name, s.email, s.address, u.name")
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderClause(storeAdminSortFields, filters.SortBy, filters.SortOrder, "s.name"))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.StoreSummary, 0)
	for rows.Next() {
		var summary domain.StoreSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Email, &summary.Address, &summary.OwnerName, &summary.AverageRating, &summary.TotalRatings); err != nil {
			return nil, err
		}
		items = append(items, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanStore(row pgx.Row) (domain.Store, error) {
	var store domain.Store
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Email,
		&store.Address,
		&store.OwnerID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return domain.Store{}, err
	}
	return store, nil
}
