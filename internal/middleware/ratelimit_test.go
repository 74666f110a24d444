package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit_EnvironmentBypass(t *testing.T) {
	for _, env := range []string{"test", "development", ""} {
		t.Run("env "+env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil, "res", "id", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimit_NilClient(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := CheckRateLimit(context.Background(), nil, "res", "id", 1, time.Minute)
	assert.Error(t, err)
}

func TestCheckRateLimit_FixedWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "comments", "user:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "comments", "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request should be blocked")

	// A different identity is not affected.
	allowed, err = CheckRateLimit(ctx, rdb, "comments", "user:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Window expiry resets the counter.
	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(ctx, rdb, "comments", "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	defer os.Unsetenv("APP_ENV")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	app := fiber.New()
	app.Get("/limited", RateLimit(rdb, 2, time.Minute, "limited"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	statuses := []int{}
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		_ = resp.Body.Close()
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}
