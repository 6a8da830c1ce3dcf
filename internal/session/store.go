// Package session keeps per-caller USSD dialog state between requests.
package session

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"smarttax/internal/domain"

	"go.uber.org/zap"
)

// DefaultTTL is how long an untouched session stays reachable
const DefaultTTL = 10 * time.Minute

const shardCount = 32

// TraderLookup resolves the trader owning a phone number.
// It returns domain.ErrTraderNotFound when there is none.
type TraderLookup interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Trader, error)
}

type entry struct {
	session   *domain.Session
	expiresAt time.Time
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// Store is an in-memory session table with idle expiry.
// Sessions are copied on the way in and out, so callers never share state.
type Store struct {
	shards  [shardCount]*shard
	ttl     time.Duration
	traders TraderLookup
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store
func NewStore(traders TraderLookup, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		ttl:     DefaultTTL,
		traders: traders,
		logger:  logger,
		now:     time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[string]entry)}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

// get returns a copy of the live session for key, evicting it if expired
func (s *Store) get(key string) (*domain.Session, bool) {
	sh := s.shardFor(key)
	now := s.now()

	sh.mu.RLock()
	e, ok := sh.entries[key]
	sh.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		sh.mu.Lock()
		// re-check under the write lock, a Put may have refreshed it
		if cur, ok := sh.entries[key]; ok && !now.Before(cur.expiresAt) {
			delete(sh.entries, key)
		}
		sh.mu.Unlock()
		return nil, false
	}
	return e.session.Clone(), true
}

// GetOrCreate returns the live session for key, or a new one seeded with the
// caller's registration status. The second result reports whether it was created.
// A failed trader lookup seeds an unregistered session.
func (s *Store) GetOrCreate(ctx context.Context, key, phoneNumber string) (*domain.Session, bool) {
	if sess, ok := s.get(key); ok && sess.PhoneNumber == phoneNumber {
		return sess, false
	}

	sess := domain.NewSession(key, phoneNumber, s.now())

	trader, err := s.traders.FindByPhone(ctx, phoneNumber)
	switch {
	case err == nil:
		sess.Bind(trader)
	case errors.Is(err, domain.ErrTraderNotFound):
	default:
		s.logger.Warn("Failed to check trader for new session",
			zap.String("session_key", key),
			zap.String("phone", phoneNumber),
			zap.Error(err),
		)
	}

	return sess, true
}

// Put stores the session under key and restarts its idle window
func (s *Store) Put(key string, sess *domain.Session) {
	now := s.now()
	stored := sess.Clone()
	stored.LastTouchedAt = now

	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.entries[key] = entry{session: stored, expiresAt: now.Add(s.ttl)}
	sh.mu.Unlock()
}

// Delete removes the session under key
func (s *Store) Delete(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	delete(sh.entries, key)
	sh.mu.Unlock()
}

// Len returns the number of stored sessions, including expired ones not yet swept
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

// Sweep removes expired sessions and returns how many were removed
func (s *Store) Sweep() int {
	now := s.now()
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, e := range sh.entries {
			if !now.Before(e.expiresAt) {
				delete(sh.entries, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}
