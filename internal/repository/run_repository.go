package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/pkg/database"
)

// runRepository implements RunRepository interface
type runRepository struct {
	db *database.Postgres
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *database.Postgres) RunRepository {
	return &runRepository{db: db}
}

// Ranking queries are fixed per metric; request input never reaches the
// query text.
const (
	sumDistanceByUserQuery = `
		SELECT u.id, u.username, SUM(r.distance_meters) AS total
		FROM user_runs r
		JOIN users u ON r.user_id = u.id
		WHERE r.season_id = $1
		GROUP BY u.id, u.username
		ORDER BY total DESC
		LIMIT $2
	`

	sumElevationByUserQuery = `
		SELECT u.id, u.username, SUM(r.elevation_gain) AS total
		FROM user_runs r
		JOIN users u ON r.user_id = u.id
		WHERE r.season_id = $1
		GROUP BY u.id, u.username
		ORDER BY total DESC
		LIMIT $2
	`
)

// Insert persists a run and lets PostGIS compute its length over the
// geography. Runs within the caller's transaction.
func (r *runRepository) Insert(ctx context.Context, q DBTX, run *domain.Run, lineWKT string) error {
	query := `
		INSERT INTO user_runs (id, user_id, season_id, strava_id, geom, distance_meters, elevation_gain, created_at)
		VALUES (
			$1, $2, $3, $4,
			ST_GeomFromText($5, 4326),
			ST_Length(ST_GeomFromText($5, 4326)::geography),
			$6, $7
		)
		RETURNING distance_meters
	`

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	var stravaID sql.NullString
	if run.StravaID != nil {
		stravaID = sql.NullString{String: *run.StravaID, Valid: true}
	}

	err := q.QueryRowContext(ctx, query,
		run.ID,
		run.UserID,
		run.SeasonID,
		stravaID,
		lineWKT,
		run.ElevationGain,
		run.CreatedAt,
	).Scan(&run.DistanceMeters)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("activity already synced for user %s: %w", run.UserID, ErrDuplicateRun)
			}
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// ExistsByStravaID checks whether a synced run already exists for the
// given user/activity pair
func (r *runRepository) ExistsByStravaID(ctx context.Context, userID, stravaID string) (bool, error) {
	query := `SELECT 1 FROM user_runs WHERE user_id = $1 AND strava_id = $2`

	var one int
	err := r.db.DB.QueryRowContext(ctx, query, userID, stravaID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check for existing run: %w", err)
	}

	return true, nil
}

// History returns the newest runs for a user within a season, geometry
// serialized as GeoJSON
func (r *runRepository) History(ctx context.Context, userID string, seasonID int64, limit int) ([]domain.RunView, error) {
	query := `
		SELECT id, distance_meters, elevation_gain, created_at, ST_AsGeoJSON(geom)
		FROM user_runs
		WHERE user_id = $1 AND season_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, seasonID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var results []domain.RunView
	for rows.Next() {
		var view domain.RunView
		var geojson []byte
		if err := rows.Scan(&view.ID, &view.DistanceMeters, &view.ElevationGain, &view.CreatedAt, &geojson); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		view.Geometry = json.RawMessage(geojson)
		results = append(results, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run history: %w", err)
	}

	return results, nil
}

// SeasonTotals sums distance and elevation for a user within a season
func (r *runRepository) SeasonTotals(ctx context.Context, userID string, seasonID int64) (float64, float64, int, error) {
	query := `
		SELECT COALESCE(SUM(distance_meters), 0), COALESCE(SUM(elevation_gain), 0), COUNT(*)
		FROM user_runs
		WHERE user_id = $1 AND season_id = $2
	`

	var distance, elevation float64
	var count int
	err := r.db.DB.QueryRowContext(ctx, query, userID, seasonID).Scan(&distance, &elevation, &count)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to sum season totals: %w", err)
	}

	return distance, elevation, count, nil
}

// SumByUser returns per-user metric sums within a season, descending
func (r *runRepository) SumByUser(ctx context.Context, seasonID int64, metric domain.Metric, limit int) ([]domain.UserTotal, error) {
	var query string
	switch metric {
	case domain.MetricDistance:
		query = sumDistanceByUserQuery
	case domain.MetricElevation:
		query = sumElevationByUserQuery
	default:
		return nil, fmt.Errorf("unknown metric %q: %w", metric, domain.ErrValidation)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, seasonID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.UserTotal
	for rows.Next() {
		var t domain.UserTotal
		var total sql.NullFloat64
		if err := rows.Scan(&t.UserID, &t.Username, &total); err != nil {
			return nil, fmt.Errorf("failed to scan user total: %w", err)
		}
		t.Total = total.Float64
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user totals: %w", err)
	}

	return totals, nil
}
