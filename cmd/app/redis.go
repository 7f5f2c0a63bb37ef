package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/CommunityEconomy_Go/internal/config"
	"github.com/osse101/CommunityEconomy_Go/internal/ratelimit"
)

// connectRedis returns nil when rate limiting is switched off
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.RateLimitEnabled() {
		slog.Info("Rate limiting disabled")
		return nil, nil
	}
	client, err := ratelimit.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	slog.Info("Rate limiting enabled", "addr", cfg.RedisAddr, "per_minute", cfg.RateLimitPerMin)
	return client, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
