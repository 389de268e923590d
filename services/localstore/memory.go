package localstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryBackend keeps keys in process. Expired entries are dropped lazily.
type memoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func newMemoryBackend(ttl time.Duration, now func() time.Time) *memoryBackend {
	return &memoryBackend{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get implements Backend.
func (b *memoryBackend) Get(ctx context.Context, key string) (string, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()
	if !ok {
		return "", ErrKeyNotFound
	}
	if b.now().After(entry.expiresAt) {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

// Set implements Backend.
func (b *memoryBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{value: value, expiresAt: b.now().Add(b.ttl)}
	return nil
}

// Delete implements Backend.
func (b *memoryBackend) Delete(ctx context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.entries, k)
	}
	return nil
}

// Close implements Backend.
func (b *memoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]memoryEntry)
	return nil
}
