package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/pkg/database"
)

// territoryRepository implements TerritoryRepository interface
type territoryRepository struct {
	db *database.Postgres
}

// NewTerritoryRepository creates a new territory repository
func NewTerritoryRepository(db *database.Postgres) TerritoryRepository {
	return &territoryRepository{db: db}
}

// MergeClosedLoop builds a polygon from the closed ring, repairs it, and
// unions it into the user's season territory. The whole merge runs in the
// caller's transaction, so an error on any step leaves the prior row
// untouched.
func (r *territoryRepository) MergeClosedLoop(ctx context.Context, q DBTX, userID string, seasonID int64, ringWKT string) (float64, error) {
	// Probe the repaired polygon first. ST_BuildArea returns NULL for a
	// ring that encloses nothing, and repair of a near-degenerate loop can
	// collapse to empty; either aborts the merge.
	probeQuery := `
		SELECT COALESCE(ST_IsEmpty(ST_MakeValid(ST_BuildArea(ST_GeomFromText($1, 4326)))), true)
	`

	var empty bool
	if err := q.QueryRowContext(ctx, probeQuery, ringWKT).Scan(&empty); err != nil {
		return 0, fmt.Errorf("failed to validate loop polygon: %w", err)
	}
	if empty {
		return 0, fmt.Errorf("loop repaired to empty polygon: %w", domain.ErrGeometryProcessing)
	}

	upsertQuery := `
		INSERT INTO territories (user_id, season_id, geom, area_sq_meters)
		VALUES (
			$1, $2,
			ST_Multi(ST_MakeValid(ST_BuildArea(ST_GeomFromText($3, 4326)))),
			0
		)
		ON CONFLICT (user_id, season_id)
		DO UPDATE SET
			geom = ST_Multi(ST_MakeValid(ST_Union(territories.geom, EXCLUDED.geom))),
			updated_at = NOW()
	`

	if _, err := q.ExecContext(ctx, upsertQuery, userID, seasonID, ringWKT); err != nil {
		return 0, fmt.Errorf("failed to merge territory: %w", err)
	}

	// Recompute the stored area from the final geometry.
	areaQuery := `
		UPDATE territories
		SET area_sq_meters = ST_Area(geom::geography)
		WHERE user_id = $1 AND season_id = $2
		RETURNING area_sq_meters
	`

	var area float64
	if err := q.QueryRowContext(ctx, areaQuery, userID, seasonID).Scan(&area); err != nil {
		return 0, fmt.Errorf("failed to recompute territory area: %w", err)
	}

	return area, nil
}

// ListBySeason returns every territory of a season with its owner and
// GeoJSON geometry
func (r *territoryRepository) ListBySeason(ctx context.Context, seasonID int64) ([]domain.TerritoryView, error) {
	query := `
		SELECT t.user_id, u.username, ST_AsGeoJSON(t.geom)
		FROM territories t
		JOIN users u ON t.user_id = u.id
		WHERE t.season_id = $1
	`

	rows, err := r.db.DB.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query territories: %w", err)
	}
	defer rows.Close()

	var views []domain.TerritoryView
	for rows.Next() {
		var v domain.TerritoryView
		var geojson []byte
		if err := rows.Scan(&v.UserID, &v.Username, &geojson); err != nil {
			return nil, fmt.Errorf("failed to scan territory: %w", err)
		}
		v.Geometry = json.RawMessage(geojson)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate territories: %w", err)
	}

	return views, nil
}

// AreaByUser returns the user's territory area within a season, zero when
// no territory exists yet
func (r *territoryRepository) AreaByUser(ctx context.Context, userID string, seasonID int64) (float64, error) {
	query := `SELECT area_sq_meters FROM territories WHERE user_id = $1 AND season_id = $2`

	var area float64
	err := r.db.DB.QueryRowContext(ctx, query, userID, seasonID).Scan(&area)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query territory area: %w", err)
	}

	return area, nil
}
