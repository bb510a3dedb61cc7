package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
)

const keyPrefix = "ratelimit:"

// RedisRateLimiter enforces fixed-window request caps with INCR + EXPIRE.
type RedisRateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

func NewRedisRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Allow reports whether the request identified by key fits inside the rule's
// window. On a Redis failure it fails open: the request is allowed and the
// error is returned for logging, so a cache outage cannot take down login.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, rule config.RateLimitRule) (bool, error) {
	if !r.cfg.Enabled || !rule.Enabled || rule.Limit <= 0 {
		return true, nil
	}

	fullKey := keyPrefix + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, rule.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("rate limiter pipeline failed", zap.Error(err), zap.String("key", key))
		return true, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	count := incr.Val()
	if count > int64(rule.Limit) {
		r.logger.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", rule.Limit),
			zap.Duration("window", rule.Window))
		return false, nil
	}
	return true, nil
}

// Reset deletes the window counter for a key.
func (r *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis rate limit reset failed: %w", err)
	}
	return nil
}
