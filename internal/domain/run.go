package domain

import (
	"encoding/json"
	"time"
)

// Point is a single GPS sample. The wire order is lat/lng; the persistence
// layer stores geometries in lng/lat order per WKT convention. Zero is a
// valid coordinate (equator, prime meridian), so the fields carry no
// required binding.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Run is one recorded track. Immutable after creation. StravaID is set
// only for synced runs and is the dedup key per (user, activity).
type Run struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	SeasonID       int64     `json:"season_id" db:"season_id"`
	StravaID       *string   `json:"strava_id,omitempty" db:"strava_id"`
	DistanceMeters float64   `json:"distance_meters" db:"distance_meters"`
	ElevationGain  float64   `json:"elevation_gain" db:"elevation_gain"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RunView is a stored run with its geometry serialized as GeoJSON for
// history responses.
type RunView struct {
	ID             string          `json:"id"`
	DistanceMeters float64         `json:"distance_meters"`
	ElevationGain  float64         `json:"elevation_gain"`
	CreatedAt      time.Time       `json:"created_at"`
	Geometry       json.RawMessage `json:"geometry"`
}

// UserTotal is a per-user metric sum within a season, ordered descending
// by the ranking queries that produce it.
type UserTotal struct {
	UserID   string
	Username string
	Total    float64
}
