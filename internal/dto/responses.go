package dto

import (
	"encoding/json"

	"github.com/activoentrena/territory-service/internal/domain"
)

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	IsStravaConnected bool   `json:"is_strava_connected"`
}

// SubmitRunResponse represents the outcome of a submitted run
type SubmitRunResponse struct {
	RunID            string   `json:"run_id"`
	SeasonID         int64    `json:"season_id"`
	DistanceMeters   float64  `json:"distance_meters"`
	IsClosedLoop     bool     `json:"is_closed_loop"`
	TerritoryAreaSqM *float64 `json:"territory_area_sq_meters,omitempty"`
}

// RunFeature represents a stored run for history responses
type RunFeature struct {
	ID             string          `json:"id"`
	DistanceMeters float64         `json:"distance_meters"`
	ElevationGain  float64         `json:"elevation_gain"`
	CreatedAt      string          `json:"created_at"`
	Geometry       json.RawMessage `json:"geometry"`
}

// RunHistoryResponse represents a user's recent runs in a season
type RunHistoryResponse struct {
	SeasonID int64        `json:"season_id"`
	Runs     []RunFeature `json:"runs"`
}

// UserStatsResponse represents a user's season totals
type UserStatsResponse struct {
	SeasonID          int64   `json:"season_id"`
	SeasonName        string  `json:"season_name"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	TotalElevationM   float64 `json:"total_elevation_m"`
	RunCount          int     `json:"run_count"`
	TerritoryAreaSqM  float64 `json:"territory_area_sq_meters"`
	IsStravaConnected bool    `json:"is_strava_connected"`
}

// TerritoryFeature represents one user's claimed territory
type TerritoryFeature struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Geometry json.RawMessage `json:"geometry"`
}

// TerritoriesResponse represents all territories of a season
type TerritoriesResponse struct {
	SeasonID    int64              `json:"season_id"`
	Territories []TerritoryFeature `json:"territories"`
}

// SyncResponse represents the outcome of a Strava sync attempt
type SyncResponse struct {
	Status         string  `json:"status"`
	ActivityName   string  `json:"activity_name,omitempty"`
	RunID          string  `json:"run_id,omitempty"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
	IsClosedLoop   bool    `json:"is_closed_loop,omitempty"`
}

// LeaderboardResponse represents a ranked season leaderboard
type LeaderboardResponse struct {
	SeasonID int64                     `json:"season_id"`
	Metric   string                    `json:"metric"`
	Entries  []domain.LeaderboardEntry `json:"entries"`
}

// ClosureResponse represents the outcome of a closure sweep. Incomplete
// is set when some seasons closed but at least one failed and will be
// retried on a later sweep.
type ClosureResponse struct {
	ClosedSeasons []string `json:"closed_seasons"`
	Incomplete    bool     `json:"incomplete,omitempty"`
}

// HallOfFameResponse represents frozen podiums of past seasons
type HallOfFameResponse struct {
	Seasons []domain.SeasonPodium `json:"seasons"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
