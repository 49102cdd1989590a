package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratemystore/ratemystore/internal/domain"
)

// UsersRepository provides persistence helpers for user entities.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    name,
    email,
    password_hash,
    address,
    role,
    created_at,
    updated_at
`

// UserCreateParams bundles the fields required to create a user.
type UserCreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Address      string
	Role         domain.Role
}

// UserListFilters encapsulates the admin search options for users. Nil
// filters impose no constraint.
type UserListFilters struct {
	Name      *string
	Email     *string
	Address   *string
	Role      *domain.Role
	SortBy    string
	SortOrder string
}

var userSortFields = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

// Create inserts a new user row and returns the stored entity. A duplicate
// email yields ErrEmailTaken.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO users (name, email, password_hash, address, role)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, userColumns)

	row := r.pool.QueryRow(ctx, query, params.Name, params.Email, params.PasswordHash, params.Address, params.Role)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by its identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email, used by login.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePassword replaces the stored credential hash for a user.
func (r *UsersRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `
        UPDATE users
        SET password_hash = $2, updated_at = now()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns users that match the provided filters, sorted by a
// whitelisted field.
func (r *UsersRepository) List(ctx context.Context, filters UserListFilters) ([]domain.UserSummary, error) {
	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Name != nil && strings.TrimSpace(*filters.Name) != "" {
		where = append(where, fmt.Sprintf("name ILIKE %s", arg("%"+strings.TrimSpace(*filters.Name)+"%")))
	}
	if filters.Email != nil && strings.TrimSpace(*filters.Email) != "" {
		where = append(where, fmt.Sprintf("email ILIKE %s", arg("%"+strings.TrimSpace(*filters.Email)+"%")))
	}
	if filters.Address != nil && strings.TrimSpace(*filters.Address) != "" {
		where = append(where, fmt.Sprintf("address ILIKE %s", arg("%"+strings.TrimSpace(*filters.Address)+"%")))
	}
	if filters.Role != nil && *filters.Role != "" {
		where = append(where, fmt.Sprintf("role = %s", arg(*filters.Role)))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT id, name, email, address, role, created_at FROM users")
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderClause(userSortFields, filters.SortBy, filters.SortOrder, "name"))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.UserSummary, 0)
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetDetail fetches a user together with the average rating of the store
// they own. StoreRating stays nil for users that are not store owners.
func (r *UsersRepository) GetDetail(ctx context.Context, id int64) (domain.UserDetail, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.address, u.role, u.created_at,
               CASE
                   WHEN u.role = 'store_owner' THEN COALESCE(ROUND(AVG(r.rating)::numeric, 2), 0)::float8
                   ELSE NULL
               END AS store_rating
        FROM users u
        LEFT JOIN stores s ON s.owner_id = u.id AND u.role = 'store_owner'
        LEFT JOIN ratings r ON r.store_id = s.id
        WHERE u.id = $1
        GROUP BY u.id, u.name, u.email, u.address, u.role, u.created_at
    `
	var detail domain.UserDetail
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Name,
		&detail.Email,
		&detail.Address,
		&detail.Role,
		&detail.CreatedAt,
		&detail.StoreRating,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.UserDetail{}, ErrNotFound
		}
		return domain.UserDetail{}, err
	}
	return detail, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Address,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
