package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, clientID string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend, err := NewBackend(StoreTypeRedis, WithRedisClient(client), WithTTL(time.Hour))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return New(backend, clientID, nil), mr
}

func TestNewBackend(t *testing.T) {
	_, err := NewBackend(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBackend("sqlite")
	assert.ErrorIs(t, err, ErrInvalidStoreType)

	b, err := NewBackend(StoreTypeMemory)
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestStore_MissingKeysDefaultToEmpty(t *testing.T) {
	backend, err := NewBackend(StoreTypeMemory)
	require.NoError(t, err)
	s := New(backend, "client-1", nil)
	ctx := context.Background()

	assert.Equal(t, "", s.SessionID(ctx))
	assert.Equal(t, "", s.TriageLevel(ctx))
	assert.Equal(t, []string{}, s.Symptoms(ctx))
}

func TestStore_MalformedSymptomsDefaultToEmpty(t *testing.T) {
	backend, err := NewBackend(StoreTypeMemory)
	require.NoError(t, err)
	s := New(backend, "client-1", nil)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "client-1:"+KeySymptoms, "{not json"))
	assert.Equal(t, []string{}, s.Symptoms(ctx))

	require.NoError(t, backend.Set(ctx, "client-1:"+KeySymptoms, "null"))
	assert.Equal(t, []string{}, s.Symptoms(ctx))
}

func TestStore_RoundTripAndLastWriteWins(t *testing.T) {
	backend, err := NewBackend(StoreTypeMemory)
	require.NoError(t, err)
	s := New(backend, "client-1", nil)
	ctx := context.Background()

	require.NoError(t, s.SetSessionID(ctx, "a"))
	require.NoError(t, s.SetSessionID(ctx, "b"))
	require.NoError(t, s.SetTriageLevel(ctx, "URGENT"))
	require.NoError(t, s.SetSymptoms(ctx, []string{"fever", "cough"}))

	assert.Equal(t, "b", s.SessionID(ctx))
	assert.Equal(t, "URGENT", s.TriageLevel(ctx))
	assert.Equal(t, []string{"fever", "cough"}, s.Symptoms(ctx))

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, "", s.SessionID(ctx))
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	backend, err := NewBackend(StoreTypeMemory)
	require.NoError(t, err)
	ctx := context.Background()
	a := New(backend, "a", nil)
	b := New(backend, "b", nil)

	require.NoError(t, a.SetSessionID(ctx, "session-a"))
	assert.Equal(t, "", b.SessionID(ctx))
}

func TestMemoryBackend_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	backend, err := NewBackend(StoreTypeMemory, WithTTL(time.Minute), withClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k", "v"))
	v, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, err = backend.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisBackend(t *testing.T) {
	s, mr := newRedisStore(t, "client-9")
	ctx := context.Background()

	assert.Equal(t, "", s.SessionID(ctx))
	require.NoError(t, s.SetSessionID(ctx, "sess-1"))
	require.NoError(t, s.SetSymptoms(ctx, []string{"fever"}))

	assert.Equal(t, "sess-1", s.SessionID(ctx))
	assert.Equal(t, []string{"fever"}, s.Symptoms(ctx))
	assert.True(t, mr.Exists(redisKeyPrefix+"client-9:"+KeySessionID))
	assert.Equal(t, time.Hour, mr.TTL(redisKeyPrefix+"client-9:"+KeySessionID))

	mr.FastForward(2 * time.Hour)
	assert.Equal(t, "", s.SessionID(ctx))
}

func TestRedisBackend_UnavailableReadsAsEmpty(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	backend, err := NewBackend(StoreTypeRedis, WithRedisClient(client))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	s := New(backend, "client-9", nil)
	ctx := context.Background()

	assert.Equal(t, "", s.SessionID(ctx))
	assert.Equal(t, []string{}, s.Symptoms(ctx))
	assert.Error(t, s.SetSessionID(ctx, "x"))
}
