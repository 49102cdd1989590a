package domain

import "time"

// Rating represents a single user's rating for a store. At most one row
// exists per (user, store) pair; re-submission overwrites Value and
// UpdatedAt while CreatedAt is preserved.
type Rating struct {
	UserID    int64
	StoreID   int64
	Value     int16
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate provides average and count for a store's ratings.
// Average is 0 when Count is 0.
type RatingAggregate struct {
	Average float64
	Count   int64
}

// StoreRater is one entry in the owner dashboard's review feed.
type StoreRater struct {
	Name      string
	Email     string
	Rating    int16
	CreatedAt time.Time
}
