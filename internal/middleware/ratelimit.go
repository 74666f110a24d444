package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when the limiter's Redis
// backend cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through on limiter errors.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503 on limiter errors.
	FailClosed
)

// limiterBypassed reports whether rate limiting is switched off for the
// current environment. Local development and the test suite run unthrottled.
func limiterBypassed() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "test" || env == "development"
}

func limiterKey(resource, caller string) string {
	return fmt.Sprintf("rl:%s:%s", resource, caller)
}

// CheckRateLimit applies one fixed-window hit for caller against resource and
// reports whether the request is still within limit. The window starts on the
// first hit and is enforced entirely in Redis, so every replica of the server
// shares one budget per caller.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, caller string, limit int, window time.Duration) (bool, error) {
	if limiterBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := limiterKey(resource, caller)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// callerIdentity keys the limiter by authenticated user when one is resolved,
// falling back to the remote IP for anonymous traffic.
func callerIdentity(c *fiber.Ctx) string {
	if uid := c.Locals("userID"); uid != nil {
		return fmt.Sprintf("user:%v", uid)
	}
	return fmt.Sprintf("ip:%s", c.IP())
}

// RateLimit returns a fail-open Fiber middleware enforcing limit requests per
// window. An optional name overrides the request path as the resource label,
// so the same budget can span several routes.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(context.Background(), rdb, resource, callerIdentity(c), limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limiter unavailable, failing closed",
					"path", c.Path(), "resource", resource, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			Logger.WarnContext(c.UserContext(), "rate limiter unavailable, failing open",
				"path", c.Path(), "resource", resource, "error", err)
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
