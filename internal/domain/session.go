package domain

import "time"

// FlowKind identifies the sub-dialog a session is in
type FlowKind string

const (
	FlowNone         FlowKind = "none"
	FlowRegistration FlowKind = "registration"
	FlowLogin        FlowKind = "login"
	FlowPayment      FlowKind = "payment"
)

// Scratch keys stored in Flow.Data
const (
	KeyFullName     = "full_name"
	KeyEmail        = "email"
	KeyMomoNumber   = "momo_number"
	KeyDistrictID   = "district_id"
	KeyDistrictName = "district_name"
	KeySectorID     = "sector_id"
	KeySectorName   = "sector_name"
	KeyCategory     = "category"
	KeyProductName  = "product_name"
)

// Flow is the single active sub-dialog of a session.
// Options is the selection list most recently rendered to the caller.
type Flow struct {
	Kind    FlowKind
	Step    int
	Data    map[string]string
	Options []Option
}

// Session is the per-caller state carried between USSD requests
type Session struct {
	Key           string
	PhoneNumber   string
	Registered    bool
	Trader        *Trader
	Flow          Flow
	TrailOffset   int
	CreatedAt     time.Time
	LastTouchedAt time.Time
}

// NewSession creates an unregistered session with no active flow
func NewSession(key, phoneNumber string, now time.Time) *Session {
	return &Session{
		Key:           key,
		PhoneNumber:   phoneNumber,
		Flow:          Flow{Kind: FlowNone},
		CreatedAt:     now,
		LastTouchedAt: now,
	}
}

// Bind attaches a trader account and marks the session registered
func (s *Session) Bind(trader *Trader) {
	s.Trader = trader
	s.Registered = trader != nil
}

// TraderID returns the bound trader's id, or 0 when unbound
func (s *Session) TraderID() int64 {
	if s.Trader == nil {
		return 0
	}
	return s.Trader.ID
}

// StartFlow replaces any active flow with a fresh one at step 1
func (s *Session) StartFlow(kind FlowKind) {
	s.Flow = Flow{Kind: kind, Step: 1, Data: make(map[string]string)}
}

// Advance moves the active flow one step forward
func (s *Session) Advance() {
	s.Flow.Step++
}

// EndFlow discards the active flow and its scratch data
func (s *Session) EndFlow() {
	s.Flow = Flow{Kind: FlowNone}
}

// Set stores a scratch value for the active flow
func (s *Session) Set(key, value string) {
	if s.Flow.Data == nil {
		s.Flow.Data = make(map[string]string)
	}
	s.Flow.Data[key] = value
}

// Get returns a scratch value of the active flow
func (s *Session) Get(key string) string {
	return s.Flow.Data[key]
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	if s.Trader != nil {
		t := *s.Trader
		c.Trader = &t
	}
	if s.Flow.Data != nil {
		c.Flow.Data = make(map[string]string, len(s.Flow.Data))
		for k, v := range s.Flow.Data {
			c.Flow.Data[k] = v
		}
	}
	if s.Flow.Options != nil {
		c.Flow.Options = append([]Option(nil), s.Flow.Options...)
	}
	return &c
}
