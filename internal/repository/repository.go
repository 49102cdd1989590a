package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratemystore/ratemystore/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrEmailTaken indicates a user or store with the same email exists.
	ErrEmailTaken = errors.New("repository: email already in use")
	// ErrOwnerHasStore indicates the owner is already assigned to a store.
	ErrOwnerHasStore = errors.New("repository: owner already has a store")
)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users   *UsersRepository
	Stores  *StoresRepository
	Ratings *RatingsRepository
	Stats   *StatsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Users:   &UsersRepository{pool: pool},
		Stores:  &StoresRepository{pool: pool},
		Ratings: &RatingsRepository{pool: pool},
		Stats:   &StatsRepository{pool: pool},
	}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// orderClause resolves a caller-supplied sort field and direction against a
// whitelist of SQL expressions. Unknown fields fall back to the given default
// expression and anything but "desc" sorts ascending, so client input never
// reaches the query text.
func orderClause(fields map[string]string, sortBy, sortOrder, fallback string) string {
	expr, ok := fields[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		expr = fallback
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "desc") {
		dir = "DESC"
	}
	return expr + " " + dir
}
