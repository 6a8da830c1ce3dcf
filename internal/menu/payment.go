package menu

import (
	"context"
	"strings"

	"smarttax/internal/domain"

	"go.uber.org/zap"
)

const (
	payProduct = iota + 1
	payPrice
)

func (m *Machine) payment(ctx context.Context, sess *domain.Session, choice string) Response {
	switch sess.Flow.Step {
	case payProduct:
		product := strings.TrimSpace(choice)
		if product == "" {
			return End(MsgInvalidProduct)
		}
		sess.Set(domain.KeyProductName, product)
		sess.Advance()
		return Con(promptPrice)

	case payPrice:
		amount, err := domain.ParseAmount(choice)
		if err != nil {
			return End(MsgInvalidAmount)
		}

		tx, err := m.deps.Payments.RecordSale(ctx, sess.Trader, sess.Get(domain.KeyProductName), amount)
		if err != nil {
			m.logger.Error("Failed to record sale",
				zap.Int64("trader_id", sess.TraderID()),
				zap.Error(err),
			)
			return End(MsgPaymentFailed)
		}
		return End(receiptText(tx, m.deps.Payments.RatePercent()))
	}
	return End(MsgInvalidOption)
}
