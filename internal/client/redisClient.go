package client

import (
	"context"
	"fmt"
	"time"

	"restaurant-webhooks/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient returns nil when no cache address is configured.
func InitRedisClient(ctx context.Context, cfg config.Cache) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
