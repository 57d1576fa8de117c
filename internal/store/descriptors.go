// Package store persists the per-session custom package descriptor.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xtding233/wayward-coins/internal/pricing"
)

// Key is the record name inside a session namespace.
const Key = "customPackage"

// Schema identifies the record layout. Records carrying another schema read as absent.
const Schema = "customPackage/v1"

// Record is the stored form of a descriptor.
type Record struct {
	Schema     string             `json:"schema"`
	Descriptor pricing.Descriptor `json:"descriptor"`
	SavedAt    time.Time          `json:"savedAt"`
}

// Descriptors reads and writes custom package descriptors, one per session.
type Descriptors struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

// NewDescriptors wraps kv. ttl <= 0 keeps records until deleted.
func NewDescriptors(kv KV, ttl time.Duration) *Descriptors {
	return &Descriptors{kv: kv, ttl: ttl, now: time.Now}
}

// NewFromConfig connects the configured backend.
func NewFromConfig(ctx context.Context, cfg Config, logger *zap.Logger) (*Descriptors, error) {
	switch cfg.Mode {
	case "", ModeMemory:
		logger.Info("using memory descriptor store")
		return NewDescriptors(NewMemoryKV(10*time.Minute), cfg.Expiration), nil
	case ModeRedis:
		opts, err := newRedisOptions(cfg.Redis)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
		}
		logger.Info("using redis descriptor store", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
		return NewDescriptors(NewRedisKV(client), cfg.Expiration), nil
	default:
		return nil, fmt.Errorf("unknown store mode %q", cfg.Mode)
	}
}

func sessionKey(session string) string {
	return "session:" + session + ":" + Key
}

// Save overwrites the session's descriptor.
func (s *Descriptors) Save(ctx context.Context, session string, d pricing.Descriptor) error {
	b, err := json.Marshal(Record{Schema: Schema, Descriptor: d, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	return s.kv.Set(ctx, sessionKey(session), b, s.ttl)
}

// Touch restarts the descriptor's expiration so it lives as long as an active session.
// A missing descriptor or a store without expiration is not an error.
func (s *Descriptors) Touch(ctx context.Context, session string) error {
	if s.ttl <= 0 {
		return nil
	}
	err := s.kv.Touch(ctx, sessionKey(session), s.ttl)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Load returns the session's descriptor or ErrNotFound.
func (s *Descriptors) Load(ctx context.Context, session string) (pricing.Descriptor, error) {
	b, err := s.kv.Get(ctx, sessionKey(session))
	if err != nil {
		return pricing.Descriptor{}, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return pricing.Descriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	if rec.Schema != Schema {
		return pricing.Descriptor{}, ErrNotFound
	}
	return rec.Descriptor, nil
}

// Delete drops the session's descriptor. Deleting an absent record is not an error.
func (s *Descriptors) Delete(ctx context.Context, session string) error {
	err := s.kv.Delete(ctx, sessionKey(session))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *Descriptors) Close() error {
	return s.kv.Close()
}
