// Package cache holds the Redis client and the stores built on it. Every
// store also has an in-memory variant used when Redis is disabled.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key this service writes
const KeyPrefix = "derbent:"

// NewRedisClient connects to Redis and verifies the connection. It returns
// nil without error when Redis is disabled.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewIdempotencyStore returns a Redis store when client is set, else an
// in-memory one. The in-memory store does not share state between
// instances, so duplicate handling is only guaranteed per process.
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client)
	}
	logger.Warn("Redis disabled, using in-memory idempotency store")
	return NewInMemoryIdempotencyStore()
}
