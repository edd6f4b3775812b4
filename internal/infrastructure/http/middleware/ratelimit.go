package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
)

// Counter counts requests per key inside a fixed window
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements Counter on a shared Redis instance, so the
// limit holds across processes
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a Redis-backed counter
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr increments the window counter, setting the expiry on first hit
func (rc *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := rc.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	return incr.Val(), nil
}

// RateLimit enforces a per-IP fixed-window request limit. Counter
// failures let the request through rather than failing closed.
func RateLimit(counter Counter, perMinute int, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", c.RealIP(), time.Now().Format("2006-01-02T15:04"))
			count, err := counter.Incr(c.Request().Context(), key, time.Minute)
			if err != nil {
				if logger != nil {
					logger.Warn("rate limit counter unavailable", zap.Error(err))
				}
				return next(c)
			}
			if count > int64(perMinute) {
				return writeError(c, apperrors.ErrRateLimited())
			}
			return next(c)
		}
	}
}
