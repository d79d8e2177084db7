package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/geo"
	"github.com/activoentrena/territory-service/internal/repository"
)

const (
	// minPointsDirect applies to tracks submitted through the API.
	minPointsDirect = 3
	// minPointsSynced applies to tracks pulled from Strava, which are
	// already device-recorded.
	minPointsSynced = 2

	defaultHistoryLimit = 50
)

// IngestInput is a validated-at-the-edge GPS track to persist.
type IngestInput struct {
	UserID        string
	Points        []domain.Point
	StravaID      *string
	ElevationGain float64
}

// IngestResult describes what a single ingestion produced.
type IngestResult struct {
	RunID            string
	SeasonID         int64
	DistanceMeters   float64
	IsClosedLoop     bool
	TerritoryAreaSqM *float64
}

// runService implements RunService interface
type runService struct {
	db            txBeginner
	userRepo      repository.UserRepository
	seasonRepo    repository.SeasonRepository
	runRepo       repository.RunRepository
	territoryRepo repository.TerritoryRepository
	now           func() time.Time
}

// NewRunService creates a new run service
func NewRunService(
	db txBeginner,
	userRepo repository.UserRepository,
	seasonRepo repository.SeasonRepository,
	runRepo repository.RunRepository,
	territoryRepo repository.TerritoryRepository,
) RunService {
	return &runService{
		db:            db,
		userRepo:      userRepo,
		seasonRepo:    seasonRepo,
		runRepo:       runRepo,
		territoryRepo: territoryRepo,
		now:           time.Now,
	}
}

// Ingest validates a track, stores it as a run in the active season and,
// for closed loops, unions the enclosed polygon into the user's
// territory. The run insert and territory merge commit or roll back
// together.
func (s *runService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	minPoints := minPointsDirect
	if input.StravaID != nil {
		minPoints = minPointsSynced
	}
	if len(input.Points) < minPoints {
		return nil, fmt.Errorf("track needs at least %d points, got %d: %w", minPoints, len(input.Points), domain.ErrValidation)
	}

	season, err := s.seasonRepo.ResolveActive(ctx, s.now())
	if err != nil {
		return nil, err
	}

	lineWKT, err := geo.LineStringWKT(input.Points)
	if err != nil {
		return nil, err
	}

	closed := geo.IsClosedLoop(input.Points)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	run := &domain.Run{
		UserID:        input.UserID,
		SeasonID:      season.ID,
		StravaID:      input.StravaID,
		ElevationGain: input.ElevationGain,
	}
	if err := s.runRepo.Insert(ctx, tx, run, lineWKT); err != nil {
		return nil, err
	}

	result := &IngestResult{
		RunID:          run.ID,
		SeasonID:       season.ID,
		DistanceMeters: run.DistanceMeters,
		IsClosedLoop:   closed,
	}

	// A 2-point synced track can close a loop degenerately but cannot
	// enclose area; the merge needs a real ring.
	if closed && len(input.Points) >= 3 {
		ringWKT, err := geo.ClosedRingWKT(input.Points)
		if err != nil {
			return nil, err
		}

		area, err := s.territoryRepo.MergeClosedLoop(ctx, tx, input.UserID, season.ID, ringWKT)
		if err != nil {
			return nil, err
		}
		result.TerritoryAreaSqM = &area
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// History returns the user's newest runs in the active season. Outside
// any season window it returns an empty list rather than an error.
func (s *runService) History(ctx context.Context, userID string, limit int) (*dto.RunHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	season, err := s.seasonRepo.ResolveActive(ctx, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSeason) {
			return &dto.RunHistoryResponse{Runs: []dto.RunFeature{}}, nil
		}
		return nil, err
	}

	views, err := s.runRepo.History(ctx, userID, season.ID, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]dto.RunFeature, 0, len(views))
	for _, v := range views {
		runs = append(runs, dto.RunFeature{
			ID:             v.ID,
			DistanceMeters: v.DistanceMeters,
			ElevationGain:  v.ElevationGain,
			CreatedAt:      v.CreatedAt.Format(time.RFC3339),
			Geometry:       v.Geometry,
		})
	}

	return &dto.RunHistoryResponse{SeasonID: season.ID, Runs: runs}, nil
}

// Stats returns the user's aggregated totals for the active season.
// Distance is reported in kilometers, elevation in meters.
func (s *runService) Stats(ctx context.Context, userID string) (*dto.UserStatsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &dto.UserStatsResponse{IsStravaConnected: user.IsStravaConnected()}

	season, err := s.seasonRepo.ResolveActive(ctx, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSeason) {
			return stats, nil
		}
		return nil, err
	}

	distance, elevation, count, err := s.runRepo.SeasonTotals(ctx, userID, season.ID)
	if err != nil {
		return nil, err
	}

	area, err := s.territoryRepo.AreaByUser(ctx, userID, season.ID)
	if err != nil {
		return nil, err
	}

	stats.SeasonID = season.ID
	stats.SeasonName = season.Name
	stats.TotalDistanceKm = round2(distance / 1000.0)
	stats.TotalElevationM = round2(elevation)
	stats.RunCount = count
	stats.TerritoryAreaSqM = area

	return stats, nil
}
