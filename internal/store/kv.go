package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("store: not found")

// KV is the byte-level backend behind the descriptor store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error) // ErrNotFound when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Touch restarts the key's ttl; ErrNotFound when absent.
	Touch(ctx context.Context, key string, ttl time.Duration) error
	Close() error
}

type memoryKV struct {
	// mu orders Touch against Set so a touch never restores an overwritten value.
	mu sync.Mutex
	c  *gocache.Cache
}

// NewMemoryKV keeps values in process. cleanup is the expired-item sweep interval.
func NewMemoryKV(cleanup time.Duration) KV {
	return &memoryKV{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v.([]byte)...), nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Set(key, append([]byte(nil), value...), memoryTTL(ttl))
	return nil
}

func (m *memoryKV) Touch(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.c.Get(key)
	if !ok {
		return ErrNotFound
	}
	m.c.Set(key, v, memoryTTL(ttl))
	return nil
}

func memoryTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *memoryKV) Close() error {
	m.c.Flush()
	return nil
}

type redisKV struct {
	client *redis.Client
}

// NewRedisKV stores values in redis.
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) Touch(ctx context.Context, key string, ttl time.Duration) error {
	var (
		ok  bool
		err error
	)
	if ttl > 0 {
		ok, err = r.client.Expire(ctx, key, ttl).Result()
	} else {
		ok, err = r.client.Persist(ctx, key).Result()
		if err == nil && !ok {
			// Persist also reports false for a key without ttl
			n, xerr := r.client.Exists(ctx, key).Result()
			ok, err = n > 0, xerr
		}
	}
	if err != nil {
		return fmt.Errorf("redis touch %s: %w", key, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) Close() error {
	return r.client.Close()
}

// newRedisOptions builds client options. URL wins over Addr.
func newRedisOptions(cfg RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	if cfg.Addr == "" {
		return nil, errors.New("redis addr or url is required")
	}
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}
