package domain

import "time"

// Role enumerates the authorization levels understood by the system.
type Role string

const (
	RoleAdmin      Role = "system_admin"
	RoleNormalUser Role = "normal_user"
	RoleStoreOwner Role = "store_owner"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormalUser, RoleStoreOwner:
		return true
	}
	return false
}

// User represents the canonical user entity in the database/service.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Address      string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the admin listing projection of a user.
type UserSummary struct {
	ID        int64
	Name      string
	Email     string
	Address   string
	Role      Role
	CreatedAt time.Time
}

// UserDetail extends the summary with the average rating of the store the
// user owns. StoreRating is nil unless the user is a store owner.
type UserDetail struct {
	UserSummary
	StoreRating *float64
}

// DashboardStats holds the global counters shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers   int64
	TotalStores  int64
	TotalRatings int64
}
