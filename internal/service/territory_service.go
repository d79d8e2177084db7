package service

import (
	"context"
	"errors"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/repository"
)

// territoryService implements TerritoryService interface
type territoryService struct {
	seasonRepo    repository.SeasonRepository
	territoryRepo repository.TerritoryRepository
	now           func() time.Time
}

// NewTerritoryService creates a new territory service
func NewTerritoryService(seasonRepo repository.SeasonRepository, territoryRepo repository.TerritoryRepository) TerritoryService {
	return &territoryService{
		seasonRepo:    seasonRepo,
		territoryRepo: territoryRepo,
		now:           time.Now,
	}
}

// SeasonTerritories returns every claimed territory of the active season
// for map rendering. Outside any season window the map is empty.
func (s *territoryService) SeasonTerritories(ctx context.Context) (*dto.TerritoriesResponse, error) {
	season, err := s.seasonRepo.ResolveActive(ctx, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSeason) {
			return &dto.TerritoriesResponse{Territories: []dto.TerritoryFeature{}}, nil
		}
		return nil, err
	}

	views, err := s.territoryRepo.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	features := make([]dto.TerritoryFeature, 0, len(views))
	for _, v := range views {
		features = append(features, dto.TerritoryFeature{
			UserID:   v.UserID,
			Username: v.Username,
			Geometry: v.Geometry,
		})
	}

	return &dto.TerritoriesResponse{SeasonID: season.ID, Territories: features}, nil
}
