package menu

import (
	"context"
	"errors"

	"smarttax/internal/domain"

	"go.uber.org/zap"
)

func (m *Machine) login(ctx context.Context, sess *domain.Session, pin string) Response {
	if sess.Flow.Step != 1 {
		return End(MsgInvalidOption)
	}

	trader, err := m.deps.Auth.Authenticate(ctx, sess.PhoneNumber, pin)
	switch {
	case errors.Is(err, domain.ErrInvalidPIN):
		return End(MsgWrongPIN)
	case errors.Is(err, domain.ErrTraderNotFound):
		return End(MsgTraderNotFound)
	case err != nil:
		m.logger.Error("Login failed",
			zap.String("phone", sess.PhoneNumber),
			zap.Error(err),
		)
		return End(MsgUnavailable)
	}

	sess.Bind(trader)
	m.logger.Info("Trader logged in", zap.Int64("trader_id", trader.ID))
	return End(loginText(trader, m.ussdCode))
}
