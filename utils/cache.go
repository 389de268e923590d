// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"healthguide/config"

	"github.com/go-redis/redis/v8"
)

// StoreClient backs the redis local store driver.
var StoreClient *redis.Client

// InitStoreCache initializes the Redis client used by the local store (REDIS_STORE_DB).
func InitStoreCache() {
	StoreClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStoreDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := StoreClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Store): %v", err)
	}
}

// GetStoreClient returns the local store Redis client.
func GetStoreClient() *redis.Client {
	if StoreClient == nil {
		InitStoreCache()
	}
	return StoreClient
}
