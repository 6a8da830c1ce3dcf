package service

import (
	"context"

	"smarttax/internal/domain"
	"smarttax/internal/repository"

	"go.uber.org/zap"
)

// LocationService serves district and sector menus with built-in fallbacks
type LocationService struct {
	locationRepo repository.LocationRepository
	logger       *zap.Logger
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo repository.LocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// Districts returns the stored districts, or the default list when the
// store is empty or fails
func (s *LocationService) Districts(ctx context.Context) ([]domain.District, error) {
	districts, err := s.locationRepo.ListDistricts(ctx)
	if err != nil {
		s.logger.Warn("Failed to list districts, using defaults", zap.Error(err))
		return domain.DefaultDistricts, nil
	}
	if len(districts) == 0 {
		s.logger.Info("No districts stored, using defaults")
		return domain.DefaultDistricts, nil
	}
	return districts, nil
}

// Sectors returns the sectors of a district, falling back like Districts
func (s *LocationService) Sectors(ctx context.Context, districtID int64) ([]domain.Sector, error) {
	sectors, err := s.locationRepo.ListSectors(ctx, districtID)
	if err != nil {
		s.logger.Warn("Failed to list sectors, using defaults",
			zap.Int64("district_id", districtID),
			zap.Error(err),
		)
		sectors = nil
	}
	if len(sectors) == 0 {
		sectors = domain.DefaultSectors(districtID)
	}
	if len(sectors) == 0 {
		return nil, domain.ErrNoLocations
	}
	return sectors, nil
}
