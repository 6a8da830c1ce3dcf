package testutil

import (
	"context"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTraderRepository is a mock for TraderRepository
type MockTraderRepository struct {
	mock.Mock
}

func (m *MockTraderRepository) FindByPhone(ctx context.Context, phone string) (*domain.Trader, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trader), args.Error(1)
}

func (m *MockTraderRepository) Create(ctx context.Context, trader *domain.Trader) error {
	args := m.Called(ctx, trader)
	return args.Error(0)
}

func (m *MockTraderRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockTransactionRepository is a mock for TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListRecent(ctx context.Context, traderID int64, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, traderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Sum(ctx context.Context, traderID int64, field domain.AmountField) (decimal.Decimal, error) {
	args := m.Called(ctx, traderID, field)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context, traderID int64) (int, error) {
	args := m.Called(ctx, traderID)
	return args.Int(0), args.Error(1)
}

// MockLocationRepository is a mock for LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) ListDistricts(ctx context.Context) ([]domain.District, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.District), args.Error(1)
}

func (m *MockLocationRepository) ListSectors(ctx context.Context, districtID int64) ([]domain.Sector, error) {
	args := m.Called(ctx, districtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sector), args.Error(1)
}

func (m *MockLocationRepository) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.District), args.Error(1)
}

func (m *MockLocationRepository) GetSector(ctx context.Context, id int64) (*domain.Sector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sector), args.Error(1)
}

// MockTraderService is a mock for the trader lookup and registration service
type MockTraderService struct {
	mock.Mock
}

func (m *MockTraderService) FindByPhone(ctx context.Context, phone string) (*domain.Trader, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trader), args.Error(1)
}

func (m *MockTraderService) Register(ctx context.Context, reg domain.Registration) (*domain.Trader, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trader), args.Error(1)
}

func (m *MockTraderService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockAuthenticator is a mock for PIN authentication
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, phone, pin string) (*domain.Trader, error) {
	args := m.Called(ctx, phone, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trader), args.Error(1)
}

// MockLocationService is a mock for the district and sector lists
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) Districts(ctx context.Context) ([]domain.District, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.District), args.Error(1)
}

func (m *MockLocationService) Sectors(ctx context.Context, districtID int64) ([]domain.Sector, error) {
	args := m.Called(ctx, districtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sector), args.Error(1)
}

// MockPaymentService is a mock for sale recording
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordSale(ctx context.Context, trader *domain.Trader, product string, gross decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, trader, product, gross)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPaymentService) RatePercent() string {
	args := m.Called()
	return args.String(0)
}

// MockStatsService is a mock for transaction history
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) RecentTransactions(ctx context.Context, traderID int64, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, traderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockStatsService) Summary(ctx context.Context, traderID int64) (domain.Summary, error) {
	args := m.Called(ctx, traderID)
	return args.Get(0).(domain.Summary), args.Error(1)
}
