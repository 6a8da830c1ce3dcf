package repository

import (
	"context"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
)

// TraderRepository defines trader data operations
type TraderRepository interface {
	// FindByPhone returns nil, nil when no trader owns the phone
	FindByPhone(ctx context.Context, phone string) (*domain.Trader, error)
	// Create inserts the trader and sets its ID and timestamps.
	// Returns domain.ErrPhoneRegistered when the phone is taken.
	Create(ctx context.Context, trader *domain.Trader) error
	Count(ctx context.Context) (int, error)
}

// TransactionRepository defines transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	ListRecent(ctx context.Context, traderID int64, limit int) ([]domain.Transaction, error)
	Sum(ctx context.Context, traderID int64, field domain.AmountField) (decimal.Decimal, error)
	Count(ctx context.Context, traderID int64) (int, error)
}

// LocationRepository defines district and sector reference data operations
type LocationRepository interface {
	ListDistricts(ctx context.Context) ([]domain.District, error)
	ListSectors(ctx context.Context, districtID int64) ([]domain.Sector, error)
	// GetDistrict and GetSector return nil, nil when the id is unknown
	GetDistrict(ctx context.Context, id int64) (*domain.District, error)
	GetSector(ctx context.Context, id int64) (*domain.Sector, error)
}
