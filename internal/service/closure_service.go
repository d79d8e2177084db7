package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/repository"
)

// closureService implements ClosureService interface
type closureService struct {
	db         txBeginner
	seasonRepo repository.SeasonRepository
	podiumRepo repository.PodiumRepository
	logger     *zap.Logger
}

// NewClosureService creates a new closure service
func NewClosureService(db txBeginner, seasonRepo repository.SeasonRepository, podiumRepo repository.PodiumRepository, logger *zap.Logger) ClosureService {
	return &closureService{
		db:         db,
		seasonRepo: seasonRepo,
		podiumRepo: podiumRepo,
		logger:     logger,
	}
}

// ProcessPendingClosures freezes podiums for every ended season that has
// none yet. Each season closes in its own transaction; a failing season
// is skipped and the sweep continues, so one bad season cannot block the
// rest. The sweep is idempotent: already-closed seasons are not selected.
func (s *closureService) ProcessPendingClosures(ctx context.Context) ([]string, error) {
	pending, err := s.seasonRepo.PendingClosures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending closures: %w", err)
	}

	var closed []string
	var errs []error
	for _, season := range pending {
		if err := s.closeSeason(ctx, season); err != nil {
			s.logger.Error("season closure failed",
				zap.Int64("season_id", season.ID),
				zap.String("season_name", season.Name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("season %s: %w", season.Name, err))
			continue
		}

		s.logger.Info("season closed",
			zap.Int64("season_id", season.ID),
			zap.String("season_name", season.Name))
		closed = append(closed, season.Name)
	}

	return closed, errors.Join(errs...)
}

func (s *closureService) closeSeason(ctx context.Context, season *domain.Season) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.podiumRepo.InsertTopThree(ctx, tx, season.ID, domain.MetricDistance); err != nil {
		return err
	}
	if err := s.podiumRepo.InsertTopThree(ctx, tx, season.ID, domain.MetricElevation); err != nil {
		return err
	}
	if err := s.seasonRepo.Deactivate(ctx, tx, season.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HallOfFame returns the frozen podiums of all closed seasons, newest
// first.
func (s *closureService) HallOfFame(ctx context.Context) (*dto.HallOfFameResponse, error) {
	seasons, err := s.podiumRepo.History(ctx)
	if err != nil {
		return nil, err
	}
	if seasons == nil {
		seasons = []domain.SeasonPodium{}
	}

	return &dto.HallOfFameResponse{Seasons: seasons}, nil
}
