// Package localstore is the per-browser-session key-value channel the triage
// components use to hand state to each other. Readers never fail on absent or
// malformed keys; they get the zero value.
package localstore

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// StoreType selects the backend driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

var (
	ErrKeyNotFound      = errors.New("local store: key not found")
	ErrInvalidConfig    = errors.New("local store: invalid configuration")
	ErrInvalidStoreType = errors.New("local store: invalid store type")
)

const defaultTTL = 12 * time.Hour

// Backend is a flat string key-value store with expiry.
type Backend interface {
	// Get returns ErrKeyNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Option configures a backend.
type Option func(*backendConfig)

type backendConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
}

// WithRedisClient sets the Redis client for the Redis backend.
func WithRedisClient(client *redis.Client) Option {
	return func(c *backendConfig) {
		c.redisClient = client
	}
}

// WithTTL sets how long a browser session's keys live after their last write.
func WithTTL(ttl time.Duration) Option {
	return func(c *backendConfig) {
		c.ttl = ttl
	}
}

// withClock overrides time for the memory backend in tests.
func withClock(now func() time.Time) Option {
	return func(c *backendConfig) {
		c.now = now
	}
}

// NewBackend creates a Backend of the given type.
// For Redis, requires WithRedisClient.
func NewBackend(storeType StoreType, opts ...Option) (Backend, error) {
	cfg := &backendConfig{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = defaultTTL
	}

	switch storeType {
	case StoreTypeMemory, "":
		return newMemoryBackend(cfg.ttl, cfg.now), nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisBackend(cfg.redisClient, cfg.ttl), nil
	default:
		return nil, ErrInvalidStoreType
	}
}
