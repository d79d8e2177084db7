package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/pkg/database"
)

// seasonRepository implements SeasonRepository interface
type seasonRepository struct {
	db *database.Postgres
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *database.Postgres) SeasonRepository {
	return &seasonRepository{db: db}
}

// ResolveActive returns the season whose window contains the given date
func (r *seasonRepository) ResolveActive(ctx context.Context, on time.Time) (*domain.Season, error) {
	query := `
		SELECT id, name, start_date, end_date, is_active
		FROM seasons
		WHERE $1::date BETWEEN start_date AND end_date
		LIMIT 1
	`

	season := &domain.Season{}
	err := r.db.DB.QueryRowContext(ctx, query, on).Scan(
		&season.ID,
		&season.Name,
		&season.StartDate,
		&season.EndDate,
		&season.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no season contains %s: %w", on.Format("2006-01-02"), domain.ErrNoActiveSeason)
		}
		return nil, fmt.Errorf("failed to resolve active season: %w", err)
	}

	return season, nil
}

// GetByID retrieves a season by ID
func (r *seasonRepository) GetByID(ctx context.Context, id int64) (*domain.Season, error) {
	query := `
		SELECT id, name, start_date, end_date, is_active
		FROM seasons
		WHERE id = $1
	`

	season := &domain.Season{}
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&season.ID,
		&season.Name,
		&season.StartDate,
		&season.EndDate,
		&season.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("season %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	return season, nil
}

// PendingClosures returns elapsed seasons that have no podium rows yet
func (r *seasonRepository) PendingClosures(ctx context.Context) ([]*domain.Season, error) {
	query := `
		SELECT id, name, start_date, end_date, is_active
		FROM seasons
		WHERE end_date < CURRENT_DATE
		AND id NOT IN (SELECT DISTINCT season_id FROM season_podiums)
		ORDER BY end_date
	`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending closures: %w", err)
	}
	defer rows.Close()

	var seasons []*domain.Season
	for rows.Next() {
		season := &domain.Season{}
		if err := rows.Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seasons: %w", err)
	}

	return seasons, nil
}

// Deactivate marks a season inactive within the caller's transaction
func (r *seasonRepository) Deactivate(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `UPDATE seasons SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate season: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("season %d not found: %w", id, ErrNotFound)
	}

	return nil
}
