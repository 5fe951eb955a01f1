// Package session holds short-lived per-user flow state between Discord
// interactions. Nothing here is persisted: a process restart drops every
// in-flight wizard, which is accepted behavior.
package session

import (
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an untouched session survives.
	DefaultTTL = 30 * time.Minute

	// DefaultSweepInterval is how often expired sessions are collected.
	DefaultSweepInterval = 5 * time.Minute
)

// TimeProvider abstracts the clock so TTL behavior is testable.
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a TimeProvider backed by time.Now.
func SystemClock() TimeProvider { return systemClock{} }

type entry[T any] struct {
	state   T
	touched time.Time
}

// Store keeps one session per user for a single flow type. Callers needing
// several flows run one Store per flow, which keeps sessions for different
// flows fully independent.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	ttl     time.Duration
	clock   TimeProvider

	stopOnce sync.Once
	done     chan struct{}
}

// Config holds Store settings. Zero values fall back to defaults.
type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
	Clock         TimeProvider
}

// NewStore creates a Store and starts its background sweeper. Call Stop on
// shutdown.
func NewStore[T any](cfg *Config) *Store[T] {
	if cfg == nil {
		cfg = &Config{}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}

	s := &Store[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		clock:   clock,
		done:    make(chan struct{}),
	}

	go s.sweepLoop(interval)

	return s
}

// Set replaces any existing session for the user.
func (s *Store[T]) Set(userID string, state T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = &entry[T]{state: state, touched: s.clock.Now()}
}

// Get returns the user's session. Expiry is enforced by the sweeper, not
// here, so an expired-but-unswept session may still be returned once; every
// flow step immediately refreshes the timestamp, so this staleness is
// harmless.
func (s *Store[T]) Get(userID string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[userID]
	if !ok {
		var zero T
		return zero, false
	}
	return e.state, true
}

// Update mutates the user's session in place, creating it when absent, and
// refreshes the touch timestamp.
func (s *Store[T]) Update(userID string, mutate func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		e = &entry[T]{}
		s.entries[userID] = e
	}
	mutate(&e.state)
	e.touched = s.clock.Now()
}

// Clear removes the user's session. Clearing an absent session is a no-op.
func (s *Store[T]) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Len returns the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes every session whose touch timestamp is older than the TTL
// and returns how many were removed.
func (s *Store[T]) Sweep() int {
	cutoff := s.clock.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, userID)
			removed++
		}
	}
	return removed
}

// Stop halts the background sweeper. Idempotent.
func (s *Store[T]) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Store[T]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.done:
			return
		}
	}
}
