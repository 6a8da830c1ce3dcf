package service

import (
	"context"
	"fmt"
	"strings"

	"smarttax/internal/domain"
	"smarttax/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records taxed sales
type PaymentService struct {
	txRepo       repository.TransactionRepository
	calc         *TaxCalculator
	logger       *zap.Logger
	newReference func(traderID int64) string
}

// NewPaymentService creates a new payment service
func NewPaymentService(txRepo repository.TransactionRepository, calc *TaxCalculator, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		txRepo:       txRepo,
		calc:         calc,
		logger:       logger,
		newReference: newReference,
	}
}

func newReference(traderID int64) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("TX-%d-%s", traderID, id[:12])
}

// RatePercent returns the applied tax rate as a percentage string
func (s *PaymentService) RatePercent() string {
	return s.calc.RatePercent()
}

// RecordSale splits gross into tax and trader amounts and stores the transaction
func (s *PaymentService) RecordSale(ctx context.Context, trader *domain.Trader, product string, gross decimal.Decimal) (*domain.Transaction, error) {
	if trader == nil {
		return nil, domain.ErrTraderNotFound
	}
	if !gross.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	tax, net := s.calc.Split(gross)

	tx := &domain.Transaction{
		TraderID:      trader.ID,
		ProductName:   product,
		ProductPrice:  gross,
		TaxRate:       s.calc.Rate(),
		TaxAmount:     tax,
		TraderAmount:  net,
		Reference:     s.newReference(trader.ID),
		Status:        domain.TransactionPaid,
		PaymentMethod: domain.PaymentMethodUSSD,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Sale recorded",
		zap.Int64("trader_id", trader.ID),
		zap.String("reference", tx.Reference),
		zap.String("gross", gross.StringFixed(domain.MinorUnits)),
		zap.String("tax", tax.StringFixed(domain.MinorUnits)),
	)

	return tx, nil
}
