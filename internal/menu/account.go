package menu

import (
	"context"

	"smarttax/internal/domain"

	"go.uber.org/zap"
)

func (m *Machine) transactions(ctx context.Context, sess *domain.Session) Response {
	txs, err := m.deps.Stats.RecentTransactions(ctx, sess.TraderID(), recentTransactions)
	if err != nil {
		m.logger.Error("Failed to list transactions",
			zap.Int64("trader_id", sess.TraderID()),
			zap.Error(err),
		)
		return End(MsgUnavailable)
	}
	if len(txs) == 0 {
		return End(MsgNoTransactions)
	}
	return End(transactionsText(txs))
}

func (m *Machine) balance(ctx context.Context, sess *domain.Session) Response {
	summary, err := m.deps.Stats.Summary(ctx, sess.TraderID())
	if err != nil {
		m.logger.Error("Failed to compute summary",
			zap.Int64("trader_id", sess.TraderID()),
			zap.Error(err),
		)
		return End(MsgUnavailable)
	}
	return End(summaryText(summary))
}

// profile prefers a fresh read and falls back to the bound account
func (m *Machine) profile(ctx context.Context, sess *domain.Session) Response {
	trader := sess.Trader
	fresh, err := m.deps.Traders.FindByPhone(ctx, sess.PhoneNumber)
	if err != nil {
		m.logger.Warn("Failed to refresh profile, using session copy",
			zap.Int64("trader_id", sess.TraderID()),
			zap.Error(err),
		)
	} else {
		trader = fresh
		sess.Bind(fresh)
	}
	return End(profileText(trader, m.ussdCode))
}
