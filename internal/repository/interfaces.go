package repository

import (
	"context"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
)

// UserRepository defines methods for user and Strava-credential operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// SetStravaCredential stores the athlete id and token triple as one
	// atomic update.
	SetStravaCredential(ctx context.Context, userID string, cred domain.StravaCredential) error

	// CompareAndSwapStravaTokens replaces the stored token triple only if
	// the stored refresh token still equals previousRefreshToken. Returns
	// false without error when a concurrent refresh won the race.
	CompareAndSwapStravaTokens(ctx context.Context, userID, previousRefreshToken, accessToken, refreshToken string, expiresAt int64) (bool, error)
}

// SeasonRepository defines methods for season resolution and lifecycle
type SeasonRepository interface {
	// ResolveActive returns the season whose date range contains the given
	// date. Reads persisted state at call time; no caching. Returns
	// domain.ErrNoActiveSeason when no window matches.
	ResolveActive(ctx context.Context, on time.Time) (*domain.Season, error)
	GetByID(ctx context.Context, id int64) (*domain.Season, error)

	// PendingClosures returns seasons whose end date has passed and which
	// have no podium rows yet.
	PendingClosures(ctx context.Context) ([]*domain.Season, error)
	Deactivate(ctx context.Context, q DBTX, id int64) error
}

// RunRepository defines methods for run persistence and aggregation
type RunRepository interface {
	// Insert persists a run, letting the geometry engine compute its
	// length over the geography. Fills DistanceMeters and CreatedAt on the
	// passed run.
	Insert(ctx context.Context, q DBTX, run *domain.Run, lineWKT string) error
	ExistsByStravaID(ctx context.Context, userID, stravaID string) (bool, error)
	History(ctx context.Context, userID string, seasonID int64, limit int) ([]domain.RunView, error)
	SeasonTotals(ctx context.Context, userID string, seasonID int64) (distanceMeters, elevationMeters float64, runCount int, err error)
	SumByUser(ctx context.Context, seasonID int64, metric domain.Metric, limit int) ([]domain.UserTotal, error)
}

// TerritoryRepository defines the territory upsert-and-union contract
type TerritoryRepository interface {
	// MergeClosedLoop builds a polygon from the closed ring, repairs it,
	// and unions it into the user's season territory, returning the
	// recomputed area. An empty repaired polygon aborts with
	// domain.ErrGeometryProcessing.
	MergeClosedLoop(ctx context.Context, q DBTX, userID string, seasonID int64, ringWKT string) (float64, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]domain.TerritoryView, error)

	// AreaByUser returns the user's current territory area within a
	// season, zero when none has been claimed.
	AreaByUser(ctx context.Context, userID string, seasonID int64) (float64, error)
}

// PodiumRepository defines podium persistence for closed seasons
type PodiumRepository interface {
	// InsertTopThree freezes the top-3 rows for one category of a season.
	InsertTopThree(ctx context.Context, q DBTX, seasonID int64, category domain.Metric) error
	History(ctx context.Context) ([]domain.SeasonPodium, error)
}

// TokenRepository defines methods for API session refresh tokens
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) error
}
