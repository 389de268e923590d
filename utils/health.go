package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Store     bool      `json:"store"`
	RemoteAPI bool      `json:"remoteApi"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings the store client (nil means the memory driver, always
// healthy) and the remote API, and records the snapshot.
func CheckHealth(ctx context.Context, store *redis.Client, remotePing func(context.Context) error) HealthStatus {
	status := HealthStatus{Store: true, CheckedAt: time.Now()}
	if store != nil {
		status.Store = store.Ping(ctx).Err() == nil
	}
	if remotePing != nil {
		status.RemoteAPI = remotePing(ctx) == nil
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, store *redis.Client, remotePing func(context.Context) error) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		CheckHealth(ctx, store, remotePing)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				CheckHealth(checkCtx, store, remotePing)
				cancel()
			}
		}
	}()
}
