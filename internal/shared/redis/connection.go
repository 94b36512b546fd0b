package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"repo-universe/internal/shared/config"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

// Connect opens the redis connection; it returns nil, nil when redis is disabled
func Connect(ctx context.Context, cfg *config.Config) (*Client, error) {
	logger := slog.With("component", "redis", "operation", "connect")

	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, bus events stay in-process")
		return nil, nil
	}

	var rdb *redis.Client

	if cfg.Redis.URL != "" {
		logger.Debug("Connecting to Redis using URL")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to parse Redis URL", "error", err)
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		logger.Debug("Connecting to Redis using host/port",
			"host", cfg.Redis.Host,
			"port", cfg.Redis.Port)

		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to ping Redis", "error", err)
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")

	return &Client{rdb}, nil
}

// Status reports whether redis answers a ping; a nil client reports disabled
func (c *Client) Status(ctx context.Context) string {
	if c == nil || c.Client == nil {
		return "disabled"
	}
	if err := c.Ping(ctx).Err(); err != nil {
		return "disconnected"
	}
	return "connected"
}

func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
