package localstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "hg:store:"

type redisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisBackend(client *redis.Client, ttl time.Duration) *redisBackend {
	return &redisBackend{client: client, ttl: ttl}
}

// Get implements Backend.
func (b *redisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set implements Backend.
func (b *redisBackend) Set(ctx context.Context, key, value string) error {
	return b.client.Set(ctx, redisKeyPrefix+key, value, b.ttl).Err()
}

// Delete implements Backend.
func (b *redisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = redisKeyPrefix + k
	}
	return b.client.Del(ctx, full...).Err()
}

// Close implements Backend.
func (b *redisBackend) Close() error {
	return b.client.Close()
}
