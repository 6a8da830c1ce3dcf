package service

import (
	"context"
	"fmt"
	"time"

	"smarttax/internal/domain"
	"smarttax/internal/repository"

	"go.uber.org/zap"
)

// TraderService handles trader lookup and registration
type TraderService struct {
	traderRepo   repository.TraderRepository
	locationRepo repository.LocationRepository
	hasher       PINHasher
	logger       *zap.Logger
	now          func() time.Time
}

// NewTraderService creates a new trader service
func NewTraderService(
	traderRepo repository.TraderRepository,
	locationRepo repository.LocationRepository,
	hasher PINHasher,
	logger *zap.Logger,
) *TraderService {
	return &TraderService{
		traderRepo:   traderRepo,
		locationRepo: locationRepo,
		hasher:       hasher,
		logger:       logger,
		now:          time.Now,
	}
}

// FindByPhone returns the trader owning phone, with district and sector names
// filled in when they can be resolved. Returns domain.ErrTraderNotFound if none.
func (s *TraderService) FindByPhone(ctx context.Context, phone string) (*domain.Trader, error) {
	trader, err := s.traderRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if trader == nil {
		return nil, domain.ErrTraderNotFound
	}

	s.enrich(ctx, trader)
	return trader, nil
}

// enrich resolves location names. Failures leave the names empty.
func (s *TraderService) enrich(ctx context.Context, trader *domain.Trader) {
	if trader.DistrictID != 0 {
		district, err := s.locationRepo.GetDistrict(ctx, trader.DistrictID)
		if err != nil {
			s.logger.Warn("Failed to load trader district",
				zap.Int64("trader_id", trader.ID),
				zap.Error(err),
			)
		} else if district != nil {
			trader.DistrictName = district.Name
		}
	}

	if trader.SectorID != 0 {
		sector, err := s.locationRepo.GetSector(ctx, trader.SectorID)
		if err != nil {
			s.logger.Warn("Failed to load trader sector",
				zap.Int64("trader_id", trader.ID),
				zap.Error(err),
			)
		} else if sector != nil {
			trader.SectorName = sector.Name
		}
	}
}

// Register creates a trader from a completed registration flow.
// The phone is checked again right before insertion.
func (s *TraderService) Register(ctx context.Context, reg domain.Registration) (*domain.Trader, error) {
	if !domain.ValidPIN(reg.PIN) {
		return nil, domain.ErrInvalidPIN
	}

	existing, err := s.traderRepo.FindByPhone(ctx, reg.Phone)
	if err != nil {
		return nil, fmt.Errorf("check phone: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrPhoneRegistered
	}

	reg.ApplyDefaults(s.now())

	hash, err := s.hasher.Hash(reg.PIN)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	trader := reg.Trader()
	trader.PINHash = hash

	if err := s.traderRepo.Create(ctx, trader); err != nil {
		return nil, err
	}

	s.logger.Info("Trader registered",
		zap.Int64("trader_id", trader.ID),
		zap.String("phone", trader.Phone),
		zap.String("category", trader.Category),
	)

	return trader, nil
}

// Count returns the number of registered traders
func (s *TraderService) Count(ctx context.Context) (int, error) {
	return s.traderRepo.Count(ctx)
}
