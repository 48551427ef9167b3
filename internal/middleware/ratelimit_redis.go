package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStore implements RateLimitStore backed by Redis so the
// limit holds across multiple API instances. It uses a fixed window
// counter keyed by window start, the same algorithm as the in-memory
// store.
//
// The store fails open: if Redis is unreachable the request is allowed
// and the error is counted, because dropping traffic on a cache outage
// is worse than briefly exceeding the limit.
type RedisRateLimitStore struct {
	client  *redis.Client
	logger  *slog.Logger
	metrics *Metrics
}

// NewRedisRateLimitStore creates a Redis-backed rate limit store.
// logger and metrics may be nil.
func NewRedisRateLimitStore(client *redis.Client, logger *slog.Logger, metrics *Metrics) *RedisRateLimitStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateLimitStore{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Allow implements the RateLimitStore interface.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, int) {
	now := time.Now()
	windowStart := now.Truncate(config.WindowDuration)
	redisKey := "ratelimit:" + key + ":" + windowStart.Format("20060102150405")

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, config.WindowDuration)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("rate limit store unavailable, allowing request",
			"key", key, "error", err)
		if s.metrics != nil {
			s.metrics.IncRateLimitRedisErrors()
		}
		return true, 0
	}

	if incr.Val() <= int64(config.RequestsPerWindow) {
		return true, 0
	}

	windowEnd := windowStart.Add(config.WindowDuration)
	retryAfter := int(windowEnd.Sub(now).Seconds())
	if retryAfter <= 0 {
		retryAfter = 1
	}
	return false, retryAfter
}
