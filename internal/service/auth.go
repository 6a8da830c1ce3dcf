package service

import (
	"context"
	"fmt"

	"smarttax/internal/domain"
	"smarttax/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// PINHasher hashes and verifies trader PINs
type PINHasher interface {
	Hash(pin string) (string, error)
	Verify(hash, pin string) bool
}

// BcryptHasher implements PINHasher with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A cost of 0 uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PINHasher
func (h *BcryptHasher) Hash(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify implements PINHasher
func (h *BcryptHasher) Verify(hash, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// AuthService checks trader credentials
type AuthService struct {
	traderRepo repository.TraderRepository
	hasher     PINHasher
}

// NewAuthService creates a new auth service
func NewAuthService(traderRepo repository.TraderRepository, hasher PINHasher) *AuthService {
	return &AuthService{
		traderRepo: traderRepo,
		hasher:     hasher,
	}
}

// Authenticate returns the trader owning phone if pin matches its stored hash.
// Returns domain.ErrTraderNotFound or domain.ErrInvalidPIN on mismatch.
func (s *AuthService) Authenticate(ctx context.Context, phone, pin string) (*domain.Trader, error) {
	trader, err := s.traderRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if trader == nil {
		return nil, domain.ErrTraderNotFound
	}
	if !s.hasher.Verify(trader.PINHash, pin) {
		return nil, domain.ErrInvalidPIN
	}
	return trader, nil
}
