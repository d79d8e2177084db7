package domain

import "time"

// Season is an administrator-defined time window during which runs and
// territory accumulate. One season is expected to contain any given date;
// overlap is not enforced here.
type Season struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	IsActive  bool      `json:"is_active" db:"is_active"`
}
