package service

import (
	"context"
	"fmt"

	"smarttax/internal/domain"
	"smarttax/internal/repository"

	"go.uber.org/zap"
)

// StatsService handles transaction history and totals
type StatsService struct {
	txRepo repository.TransactionRepository
	logger *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(txRepo repository.TransactionRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		txRepo: txRepo,
		logger: logger,
	}
}

// RecentTransactions returns at most limit transactions, newest first
func (s *StatsService) RecentTransactions(ctx context.Context, traderID int64, limit int) ([]domain.Transaction, error) {
	if limit < 1 {
		limit = 1
	}
	return s.txRepo.ListRecent(ctx, traderID, limit)
}

// Summary returns the trader's totals
func (s *StatsService) Summary(ctx context.Context, traderID int64) (domain.Summary, error) {
	var summary domain.Summary

	count, err := s.txRepo.Count(ctx, traderID)
	if err != nil {
		return summary, fmt.Errorf("count transactions: %w", err)
	}
	summary.TotalTransactions = count

	if summary.TotalRevenue, err = s.txRepo.Sum(ctx, traderID, domain.FieldProductPrice); err != nil {
		return summary, err
	}
	if summary.TotalTax, err = s.txRepo.Sum(ctx, traderID, domain.FieldTaxAmount); err != nil {
		return summary, err
	}
	if summary.TotalTraderAmount, err = s.txRepo.Sum(ctx, traderID, domain.FieldTraderAmount); err != nil {
		return summary, err
	}

	s.logger.Debug("Summary computed",
		zap.Int64("trader_id", traderID),
		zap.Int("transactions", count),
	)

	return summary, nil
}
