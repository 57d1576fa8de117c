package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionConfig controls the cart lifetime of an idle browser session.
type SessionConfig struct {
	TTL             time.Duration `conf:"ttl" yaml:"ttl" json:"ttl"`
	CleanupInterval time.Duration `conf:"cleanup_interval" yaml:"cleanup_interval" json:"cleanup_interval"`
	CookieName      string        `conf:"cookie_name" yaml:"cookie_name" json:"cookie_name"`
}

// Sessions owns one cart per session id. A session idle for longer than the TTL is torn
// down: its cart is cleared and the end hooks run.
type Sessions struct {
	carts  *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger
	onEnd  []func(id string)

	// mu serializes cart creation with teardown of an expired cart under the same id.
	mu sync.Mutex

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewSessions builds a registry and starts sweeping expired sessions every
// CleanupInterval until Close. onEnd hooks run once per torn-down session, on expiry
// or End.
func NewSessions(cfg SessionConfig, logger *zap.Logger, onEnd ...func(id string)) *Sessions {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}

	s := &Sessions{
		carts:  gocache.New(ttl, 0),
		ttl:    ttl,
		logger: logger,
		onEnd:  onEnd,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.carts.OnEvicted(func(id string, v any) {
		if c, ok := v.(*Cart); ok {
			c.Clear()
		}
		for _, fn := range s.onEnd {
			fn(id)
		}
		s.logger.Debug("session ended", zap.String("session", id))
	})
	go s.sweepLoop(cleanup)
	return s
}

func (s *Sessions) sweepLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCh:
			return
		}
	}
}

// NewID mints a session id.
func (s *Sessions) NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID minted.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the session's cart, creating it on first use, and extends its lifetime.
// A cart that expired but was not swept yet is torn down before the new one is made.
func (s *Sessions) Get(id string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.carts.Get(id); ok {
		c := v.(*Cart)
		s.carts.Set(id, c, gocache.DefaultExpiration)
		return c
	}
	// Delete of an expired item still fires OnEvicted; a missing id is a no-op.
	s.carts.Delete(id)

	c := New()
	s.carts.Set(id, c, gocache.DefaultExpiration)
	s.logger.Debug("session started", zap.String("session", id))
	return c
}

// Peek returns the session's cart without creating it or extending it.
func (s *Sessions) Peek(id string) (*Cart, bool) {
	v, ok := s.carts.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Cart), true
}

// End tears the session down now.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts.Delete(id)
}

// Sweep tears down every expired session. The sweep loop started by NewSessions calls
// it every CleanupInterval.
func (s *Sessions) Sweep() {
	s.carts.DeleteExpired()
}

// Count is the number of live sessions, expired ones included until swept.
func (s *Sessions) Count() int {
	return s.carts.ItemCount()
}

// Close stops the sweep loop and ends every session.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sweep()
	s.logger.Info("closing sessions", zap.Int("sessions", s.Count()))
	for id := range s.carts.Items() {
		s.carts.Delete(id)
	}
}
