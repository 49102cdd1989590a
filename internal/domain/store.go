package domain

import "time"

// Store represents a rateable store. Every store belongs to exactly one
// owner with the store_owner role.
type Store struct {
	ID        int64
	Name      string
	Email     string
	Address   string
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreView is the store projection returned to authenticated users:
// aggregates over all ratings plus the viewer's own rating, if any.
type StoreView struct {
	ID            int64
	Name          string
	Email         string
	Address       string
	AverageRating float64
	TotalRatings  int64
	UserRating    *int16
}

// StoreSummary is the admin listing projection, including the owner's name.
type StoreSummary struct {
	ID            int64
	Name          string
	Email         string
	Address       string
	OwnerName     string
	AverageRating float64
	TotalRatings  int64
}
