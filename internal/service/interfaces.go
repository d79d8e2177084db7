package service

import (
	"context"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/strava"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResponseWithRefreshToken, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResponseWithRefreshToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponseWithRefreshToken, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*dto.UserInfo, error)
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// StravaAPI is the subset of the Strava client the services depend on
type StravaAPI interface {
	AuthorizeURL(redirectURI, state string) string
	ExchangeCode(ctx context.Context, code string) (*strava.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*strava.TokenResponse, error)
	LatestActivity(ctx context.Context, accessToken string) (*strava.Activity, error)
	LatLngStream(ctx context.Context, accessToken string, activityID int64) ([][2]float64, error)
}

// StravaConnectService handles OAuth account linking and token freshness
type StravaConnectService interface {
	// AuthorizationURL builds the platform redirect; state carries the
	// connecting user's id across the round trip.
	AuthorizationURL(userID string) string

	// CompleteAuthorization exchanges the callback code and stores the
	// credential on the user.
	CompleteAuthorization(ctx context.Context, userID, code string) error

	// ValidAccessToken returns an access token guaranteed to outlive the
	// next API call, refreshing and persisting the triple when needed.
	ValidAccessToken(ctx context.Context, user *domain.User) (string, error)
}

// RunService handles track ingestion and per-user season queries
type RunService interface {
	Ingest(ctx context.Context, input IngestInput) (*IngestResult, error)
	History(ctx context.Context, userID string, limit int) (*dto.RunHistoryResponse, error)
	Stats(ctx context.Context, userID string) (*dto.UserStatsResponse, error)
}

// SyncService pulls the user's latest Strava activity into a run
type SyncService interface {
	SyncLatest(ctx context.Context, userID string) (*SyncResult, error)
}

// TerritoryService exposes the season's territory map
type TerritoryService interface {
	SeasonTerritories(ctx context.Context) (*dto.TerritoriesResponse, error)
}

// LeaderboardService ranks users within the active season
type LeaderboardService interface {
	Season(ctx context.Context, metricName string) (*dto.LeaderboardResponse, error)
}

// ClosureService freezes podiums for ended seasons
type ClosureService interface {
	ProcessPendingClosures(ctx context.Context) ([]string, error)
	HallOfFame(ctx context.Context) (*dto.HallOfFameResponse, error)
}
