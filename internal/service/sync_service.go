package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/repository"
)

// SyncStatus classifies the outcome of a sync attempt. Every value here
// is a routine result, not a failure.
type SyncStatus string

const (
	SyncStatusSynced        SyncStatus = "synced"
	SyncStatusNoActivities  SyncStatus = "no_activities"
	SyncStatusAlreadySynced SyncStatus = "already_synced"
	SyncStatusNoGPSData     SyncStatus = "no_gps_data"
	SyncStatusInvalidTrack  SyncStatus = "invalid_track"
)

// SyncResult is the outcome of one sync attempt. Ingest is set only for
// SyncStatusSynced.
type SyncResult struct {
	Status       SyncStatus
	ActivityName string
	Ingest       *IngestResult
}

// syncService implements SyncService interface
type syncService struct {
	userRepo   repository.UserRepository
	runRepo    repository.RunRepository
	connectSvc StravaConnectService
	client     StravaAPI
	runSvc     RunService
	logger     *zap.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	userRepo repository.UserRepository,
	runRepo repository.RunRepository,
	connectSvc StravaConnectService,
	client StravaAPI,
	runSvc RunService,
	logger *zap.Logger,
) SyncService {
	return &syncService{
		userRepo:   userRepo,
		runRepo:    runRepo,
		connectSvc: connectSvc,
		client:     client,
		runSvc:     runSvc,
		logger:     logger,
	}
}

// SyncLatest pulls the user's most recent Strava activity and ingests it
// as a run. Dedup is checked before the stream is fetched so repeated
// syncs of the same activity cost one listing call.
func (s *syncService) SyncLatest(ctx context.Context, userID string) (*SyncResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsStravaConnected() {
		return nil, domain.ErrNotConnected
	}

	accessToken, err := s.connectSvc.ValidAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	activity, err := s.client.LatestActivity(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest activity: %w", err)
	}
	if activity == nil {
		return &SyncResult{Status: SyncStatusNoActivities}, nil
	}

	stravaID := strconv.FormatInt(activity.ID, 10)

	exists, err := s.runRepo.ExistsByStravaID(ctx, userID, stravaID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &SyncResult{Status: SyncStatusAlreadySynced, ActivityName: activity.Name}, nil
	}

	stream, err := s.client.LatLngStream(ctx, accessToken, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity stream: %w", err)
	}
	if len(stream) == 0 {
		return &SyncResult{Status: SyncStatusNoGPSData, ActivityName: activity.Name}, nil
	}
	if len(stream) < minPointsSynced {
		// GPS data is present but too sparse to form a track.
		return &SyncResult{Status: SyncStatusInvalidTrack, ActivityName: activity.Name}, nil
	}

	points := make([]domain.Point, 0, len(stream))
	for _, sample := range stream {
		points = append(points, domain.Point{Lat: sample[0], Lng: sample[1]})
	}

	result, err := s.runSvc.Ingest(ctx, IngestInput{
		UserID:        userID,
		Points:        points,
		StravaID:      &stravaID,
		ElevationGain: activity.TotalElevationGain,
	})
	if err != nil {
		// A concurrent sync of the same activity hit the unique index.
		if errors.Is(err, repository.ErrDuplicateRun) {
			return &SyncResult{Status: SyncStatusAlreadySynced, ActivityName: activity.Name}, nil
		}
		if errors.Is(err, domain.ErrValidation) {
			s.logger.Warn("synced activity rejected",
				zap.String("user_id", userID),
				zap.String("strava_id", stravaID),
				zap.Error(err))
			return &SyncResult{Status: SyncStatusInvalidTrack, ActivityName: activity.Name}, nil
		}
		return nil, err
	}

	s.logger.Info("activity synced",
		zap.String("user_id", userID),
		zap.String("strava_id", stravaID),
		zap.Float64("distance_meters", result.DistanceMeters),
		zap.Bool("closed_loop", result.IsClosedLoop))

	return &SyncResult{Status: SyncStatusSynced, ActivityName: activity.Name, Ingest: result}, nil
}
