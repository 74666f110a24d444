// Package cache provides the Redis client and cache-aside helpers for hot
// read paths (listing detail, popular listings, active moderation rules).
// The cache is strictly optional: when Redis is missing every helper becomes
// a no-op and reads fall through to the database.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"lotboard/internal/middleware"
	"lotboard/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errorCountingHook feeds Redis command failures into the error metric.
// A cache miss (redis.Nil) is normal operation, not an error.
type errorCountingHook struct{}

func (errorCountingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errorCountingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errorCountingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// clientOptions accepts either a bare host:port or a full redis:// URL.
func clientOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the package-level client to the given address. Any
// failure, from a bad address to an unreachable server, leaves the client
// nil and the service running uncached.
func InitRedis(addr string) {
	opts, err := clientOptions(addr)
	if err != nil {
		middleware.Logger.Warn("Invalid Redis address, continuing without cache",
			"addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errorCountingHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without cache", "error", err)
		client = nil
		return
	}

	middleware.Logger.Info("Redis connected successfully")
	client = c
}

// GetClient returns the current Redis client instance, nil when uncached.
func GetClient() *redis.Client {
	return client
}
