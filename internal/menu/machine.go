// Package menu implements the USSD dialog: root menus and the registration,
// login and payment flows driven one token at a time.
package menu

import (
	"context"
	"errors"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Traders looks up and creates trader accounts
type Traders interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Trader, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.Trader, error)
}

// Authenticator verifies a trader's PIN
type Authenticator interface {
	Authenticate(ctx context.Context, phone, pin string) (*domain.Trader, error)
}

// Locations serves the district and sector pick lists
type Locations interface {
	Districts(ctx context.Context) ([]domain.District, error)
	Sectors(ctx context.Context, districtID int64) ([]domain.Sector, error)
}

// Payments records taxed sales
type Payments interface {
	RecordSale(ctx context.Context, trader *domain.Trader, product string, gross decimal.Decimal) (*domain.Transaction, error)
	RatePercent() string
}

// Stats reads a trader's history
type Stats interface {
	RecentTransactions(ctx context.Context, traderID int64, limit int) ([]domain.Transaction, error)
	Summary(ctx context.Context, traderID int64) (domain.Summary, error)
}

// Deps groups the collaborators of a Machine
type Deps struct {
	Traders   Traders
	Auth      Authenticator
	Locations Locations
	Payments  Payments
	Stats     Stats
}

// Input is one decoded request step
type Input struct {
	// Tokens is the trail counted from the session's offset
	Tokens []string
	// Step is len(Tokens)
	Step int
	// Choice is the last token
	Choice string
}

// Machine drives a session through the menu tree
type Machine struct {
	deps     Deps
	ussdCode string
	logger   *zap.Logger
}

// NewMachine creates a new menu machine
func NewMachine(deps Deps, ussdCode string, logger *zap.Logger) *Machine {
	return &Machine{
		deps:     deps,
		ussdCode: ussdCode,
		logger:   logger,
	}
}

// RootMenu renders the top level menu for a caller
func (m *Machine) RootMenu(registered bool) Response {
	return Con(rootMenu(registered))
}

// Handle consumes the newest token of the trail. Any terminating response
// also ends the active flow of sess.
func (m *Machine) Handle(ctx context.Context, sess *domain.Session, in Input) Response {
	resp := m.dispatch(ctx, sess, in)
	if resp.End {
		sess.EndFlow()
	}

	m.logger.Debug("Menu step handled",
		zap.String("session", sess.Key),
		zap.Int("step", in.Step),
		zap.Int("tokens", len(in.Tokens)),
		zap.String("flow", string(sess.Flow.Kind)),
		zap.Bool("end", resp.End),
	)

	return resp
}

func (m *Machine) dispatch(ctx context.Context, sess *domain.Session, in Input) Response {
	if in.Step < 1 {
		return m.RootMenu(sess.Registered)
	}
	if in.Step == 1 {
		if sess.Registered && sess.Trader != nil {
			return m.registeredRoot(ctx, sess, in.Choice)
		}
		return m.welcomeRoot(ctx, sess, in.Choice)
	}

	// Flow step n is answered by trail token n+1
	if sess.Flow.Kind == domain.FlowNone || sess.Flow.Step != in.Step-1 {
		return End(MsgInvalidOption)
	}

	switch sess.Flow.Kind {
	case domain.FlowRegistration:
		if sess.Registered {
			return End(MsgInvalidOption)
		}
		return m.registration(ctx, sess, in.Choice)
	case domain.FlowLogin:
		if sess.Registered {
			return End(MsgInvalidOption)
		}
		return m.login(ctx, sess, in.Choice)
	case domain.FlowPayment:
		if !sess.Registered || sess.Trader == nil {
			return End(MsgInvalidOption)
		}
		return m.payment(ctx, sess, in.Choice)
	}
	return End(MsgInvalidOption)
}

func (m *Machine) welcomeRoot(ctx context.Context, sess *domain.Session, choice string) Response {
	switch choice {
	case "1":
		sess.StartFlow(domain.FlowRegistration)
		return Con(promptFullName)
	case "2":
		_, err := m.deps.Traders.FindByPhone(ctx, sess.PhoneNumber)
		if errors.Is(err, domain.ErrTraderNotFound) {
			return End(MsgAccountNotFound)
		}
		if err != nil {
			m.logger.Error("Failed to look up trader for login",
				zap.String("phone", sess.PhoneNumber),
				zap.Error(err),
			)
			return End(MsgUnavailable)
		}
		sess.StartFlow(domain.FlowLogin)
		return Con(promptPIN)
	case "3":
		return End(aboutText(m.ussdCode))
	case "0":
		return Response{Text: MsgInterest, End: true, Discard: true}
	}
	return End(MsgInvalidOption)
}

func (m *Machine) registeredRoot(ctx context.Context, sess *domain.Session, choice string) Response {
	switch choice {
	case "1":
		sess.StartFlow(domain.FlowPayment)
		return Con(promptProduct)
	case "2":
		return m.transactions(ctx, sess)
	case "3":
		return m.balance(ctx, sess)
	case "4":
		return m.profile(ctx, sess)
	case "5":
		return End(helpText())
	case "0":
		return Response{Text: MsgGoodbye, End: true, Discard: true}
	}
	return End(MsgInvalidOption)
}
