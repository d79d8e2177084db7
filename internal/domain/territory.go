package domain

import (
	"encoding/json"
	"time"
)

// Territory is the accumulated union of all closed-loop polygons a user
// has produced within a season. Unique per (user, season); the area never
// shrinks under normal operation.
type Territory struct {
	UserID       string    `json:"user_id" db:"user_id"`
	SeasonID     int64     `json:"season_id" db:"season_id"`
	AreaSqMeters float64   `json:"area_sq_meters" db:"area_sq_meters"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TerritoryView is a territory joined with its owner, geometry serialized
// as GeoJSON for map rendering.
type TerritoryView struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Geometry json.RawMessage `json:"geometry"`
}
