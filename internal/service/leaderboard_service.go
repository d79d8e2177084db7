package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/repository"
)

const leaderboardLimit = 30

// leaderboardService implements LeaderboardService interface
type leaderboardService struct {
	seasonRepo repository.SeasonRepository
	runRepo    repository.RunRepository
	now        func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(seasonRepo repository.SeasonRepository, runRepo repository.RunRepository) LeaderboardService {
	return &leaderboardService{
		seasonRepo: seasonRepo,
		runRepo:    runRepo,
		now:        time.Now,
	}
}

// Season ranks users of the active season by the named metric. An unknown
// metric or the absence of an active season yields an empty board.
func (s *leaderboardService) Season(ctx context.Context, metricName string) (*dto.LeaderboardResponse, error) {
	metric, ok := domain.ParseMetric(metricName)
	if !ok {
		return &dto.LeaderboardResponse{Metric: metricName, Entries: []domain.LeaderboardEntry{}}, nil
	}

	season, err := s.seasonRepo.ResolveActive(ctx, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSeason) {
			return &dto.LeaderboardResponse{Metric: string(metric), Entries: []domain.LeaderboardEntry{}}, nil
		}
		return nil, err
	}

	totals, err := s.runRepo.SumByUser(ctx, season.ID, metric, leaderboardLimit)
	if err != nil {
		return nil, err
	}

	divisor := metric.Divisor()
	entries := make([]domain.LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   t.UserID,
			Username: t.Username,
			Value:    round2(t.Total / divisor),
		})
	}

	return &dto.LeaderboardResponse{
		SeasonID: season.ID,
		Metric:   string(metric),
		Entries:  entries,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
