// Package middleware provides HTTP middleware for the Almanac Echo server.
// ratelimit.go implements a per-IP fixed-window limiter whose counters live
// in Redis, so every server instance behind the proxy shares one budget.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// rateLimitTimeout bounds each Redis round trip so a slow Redis cannot stall
// requests.
const rateLimitTimeout = 250 * time.Millisecond

// RateLimit returns middleware that limits requests per IP to maxRequests
// within each window. Keys are "<prefix>:<ip>:<window index>". Returns a
// 429 AppError when exceeded. If Redis is unreachable the request is allowed and the
// failure is logged.
func RateLimit(rdb *redis.Client, prefix string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			bucket := now.UnixNano() / int64(window)
			key := fmt.Sprintf("%s:%s:%d", prefix, c.RealIP(), bucket)

			ctx, cancel := context.WithTimeout(c.Request().Context(), rateLimitTimeout)
			count, err := incrWindow(ctx, rdb, key, window)
			cancel()
			if err != nil {
				slog.Warn("rate limit check failed, allowing request",
					slog.String("key", key),
					slog.Any("error", err),
				)
				return next(c)
			}

			remaining := maxRequests - int(count)
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > maxRequests {
				reset := time.Unix(0, (bucket+1)*int64(window))
				h.Set("Retry-After", strconv.Itoa(int(reset.Sub(now).Seconds())+1))
				return apperror.NewTooManyRequests("rate limit exceeded, try again later")
			}
			return next(c)
		}
	}
}

// incrWindow increments the window counter and sets its expiry on first use.
func incrWindow(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
