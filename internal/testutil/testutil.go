package testutil

import (
	"time"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestTrader creates a test trader whose PIN hash matches pin
func NewTestTrader(id int64, phone, pin string) *domain.Trader {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &domain.Trader{
		ID:           id,
		FullName:     "Test Trader",
		BusinessName: "Test Trader - Retail Shop",
		Phone:        phone,
		MomoNumber:   phone,
		Email:        "trader@example.com",
		Category:     "Retail Shop",
		TIN:          "TIN-00000001",
		DistrictID:   1,
		SectorID:     1,
		PINHash:      string(hash),
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// NewTestTransaction creates a paid test transaction
func NewTestTransaction(id, traderID int64, product string, price, tax, net string) domain.Transaction {
	return domain.Transaction{
		ID:            id,
		TraderID:      traderID,
		ProductName:   product,
		ProductPrice:  Dec(price),
		TaxAmount:     Dec(tax),
		TraderAmount:  Dec(net),
		Reference:     "TX-TEST",
		Status:        domain.TransactionPaid,
		PaymentMethod: domain.PaymentMethodUSSD,
		CreatedAt:     time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

// Dec parses a decimal literal, panicking on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
