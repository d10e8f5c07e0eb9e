// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"recruitmeet/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient is the dedicated client for session persistence.
var SessionCacheClient *redis.Client

// InitRedis initializes the Redis session client (DB from AppConfig).
func InitRedis() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Session): %v", err)
	}
}

// GetSessionCacheClient returns the session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitRedis()
	}
	return SessionCacheClient
}
