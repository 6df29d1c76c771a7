package redis_repository

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Conn dials Redis and verifies the connection with a PING.
func Conn(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		Password:     cfg.Password,
		DB:           cfg.DB,
	})
	logger.Info("connecting to redis", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}

	return client, nil
}
