package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/pkg/database"
)

// podiumRepository implements PodiumRepository interface
type podiumRepository struct {
	db *database.Postgres
}

// NewPodiumRepository creates a new podium repository
func NewPodiumRepository(db *database.Postgres) PodiumRepository {
	return &podiumRepository{db: db}
}

// Podium ranking uses RANK(), so ties share a rank. This intentionally
// differs from the live leaderboard's positional rank.
const (
	insertDistancePodiumQuery = `
		INSERT INTO season_podiums (season_id, user_id, category, rank, final_score)
		SELECT $1, user_id, 'distance',
		       RANK() OVER (ORDER BY SUM(distance_meters) DESC),
		       SUM(distance_meters) / 1000.0
		FROM user_runs
		WHERE season_id = $1
		GROUP BY user_id
		ORDER BY 5 DESC
		LIMIT 3
	`

	insertElevationPodiumQuery = `
		INSERT INTO season_podiums (season_id, user_id, category, rank, final_score)
		SELECT $1, user_id, 'elevation',
		       RANK() OVER (ORDER BY SUM(elevation_gain) DESC),
		       SUM(elevation_gain)
		FROM user_runs
		WHERE season_id = $1
		GROUP BY user_id
		ORDER BY 5 DESC
		LIMIT 3
	`
)

// InsertTopThree freezes the top-3 rows for one category of a season,
// within the caller's transaction
func (r *podiumRepository) InsertTopThree(ctx context.Context, q DBTX, seasonID int64, category domain.Metric) error {
	var query string
	switch category {
	case domain.MetricDistance:
		query = insertDistancePodiumQuery
	case domain.MetricElevation:
		query = insertElevationPodiumQuery
	default:
		return fmt.Errorf("unknown podium category %q: %w", category, domain.ErrValidation)
	}

	if _, err := q.ExecContext(ctx, query, seasonID); err != nil {
		return fmt.Errorf("failed to insert %s podium for season %d: %w", category, seasonID, err)
	}

	return nil
}

// History returns every closed season's podium grouped by season, newest
// first
func (r *podiumRepository) History(ctx context.Context) ([]domain.SeasonPodium, error) {
	query := `
		SELECT s.name, s.end_date, p.category, p.rank, u.username, p.final_score
		FROM season_podiums p
		JOIN seasons s ON p.season_id = s.id
		JOIN users u ON p.user_id = u.id
		ORDER BY s.end_date DESC, p.category, p.rank
	`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query podium history: %w", err)
	}
	defer rows.Close()

	var history []domain.SeasonPodium
	index := make(map[string]int)

	for rows.Next() {
		var (
			seasonName string
			endDate    time.Time
			champion   domain.Champion
		)
		if err := rows.Scan(&seasonName, &endDate, &champion.Category, &champion.Rank, &champion.Username, &champion.Score); err != nil {
			return nil, fmt.Errorf("failed to scan podium row: %w", err)
		}

		i, ok := index[seasonName]
		if !ok {
			history = append(history, domain.SeasonPodium{
				SeasonName: seasonName,
				EndDate:    endDate.Format("2006-01-02"),
			})
			i = len(history) - 1
			index[seasonName] = i
		}
		history[i].Champions = append(history[i].Champions, champion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate podium history: %w", err)
	}

	return history, nil
}
