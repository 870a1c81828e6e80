package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/protoscore/internal/resilience"
)

type testMetrics struct {
	blocks, redisErrors, fallbacks int64
}

func (m *testMetrics) IncrementRateLimitIPBlock()    { atomic.AddInt64(&m.blocks, 1) }
func (m *testMetrics) IncrementRateLimitRedisError() { atomic.AddInt64(&m.redisErrors, 1) }
func (m *testMetrics) IncrementRateLimitFallback()   { atomic.AddInt64(&m.fallbacks, 1) }

func newFallbackLimiter(t *testing.T, cfg Config) (*RateLimiter, *testMetrics) {
	t.Helper()
	m := &testMetrics{}
	rl := NewRateLimiter(&RedisClient{enabled: false}, cfg, m)
	t.Cleanup(rl.Close)
	return rl, m
}

func TestRateLimiterFallbackMode(t *testing.T) {
	limiter, m := newFallbackLimiter(t, DefaultConfig())
	ctx := context.Background()
	rateLimit := Rate{Limit: 5, Period: time.Minute}

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "test:user:123", rateLimit)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "Request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := limiter.Allow(ctx, "test:user:123", rateLimit)
	require.NoError(t, err)
	assert.False(t, result.Allowed, "6th request should be blocked")
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.Equal(t, int64(6), m.fallbacks)
}

func TestRateLimiterBurst(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	ctx := context.Background()
	rateLimit := Rate{Limit: 5, Burst: 10, Period: time.Minute}

	allowed := 0
	for i := 0; i < 15; i++ {
		result, err := limiter.Allow(ctx, "test:burst", rateLimit)
		require.NoError(t, err)
		if result.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 10, allowed)
}

func TestRateLimiterMultipleKeys(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	ctx := context.Background()
	rateLimit := Rate{Limit: 3, Period: time.Minute}

	for _, key := range []string{"ip:1", "ip:2", "ip:3"} {
		for i := 0; i < 3; i++ {
			result, err := limiter.Allow(ctx, key, rateLimit)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "Key %s request %d should be allowed", key, i+1)
		}

		result, err := limiter.Allow(ctx, key, rateLimit)
		require.NoError(t, err)
		assert.False(t, result.Allowed, "Key %s 4th request should be blocked", key)
	}
}

func TestRateLimiterInvalidRate(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	_, err := limiter.Allow(context.Background(), "k", Rate{Limit: 0, Period: time.Minute})
	assert.Error(t, err)
}

func TestRateLimiterRedisFailureFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	m := &testMetrics{}
	limiter := NewRateLimiter(&RedisClient{client: client, enabled: true, addr: "127.0.0.1:1"}, DefaultConfig(), m)
	defer limiter.Close()

	result, err := limiter.AllowIP(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 60, result.Limit)
	assert.Equal(t, int64(1), m.redisErrors)
	assert.Equal(t, int64(1), m.fallbacks)
}

func TestRateLimiterRedisBreakerOpens(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cfg := DefaultConfig()
	cfg.RedisBreaker = resilience.CircuitBreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Hour}
	m := &testMetrics{}
	limiter := NewRateLimiter(&RedisClient{client: client, enabled: true, addr: "127.0.0.1:1"}, cfg, m)
	defer limiter.Close()

	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	// only the calls before the breaker opened reached Redis
	assert.Equal(t, int64(2), m.redisErrors)
	assert.Equal(t, int64(5), m.fallbacks)
	assert.Equal(t, resilience.StateOpen, limiter.breaker.State())
}

func TestRateLimiterStats(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	for i := 0; i < 3; i++ {
		_, _ = limiter.AllowIP(context.Background(), fmt.Sprintf("10.0.0.%d", i))
	}

	stats := limiter.GetStats()
	assert.False(t, stats["redis_enabled"].(bool))
	assert.Equal(t, 3, stats["fallback_limiters"])
	assert.Equal(t, 60, stats["config"].(map[string]interface{})["ip_limit_per_min"])
}

func TestRateLimiterCleanup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdleTTL = time.Minute
	limiter, _ := newFallbackLimiter(t, cfg)

	for i := 0; i < 10; i++ {
		_, _ = limiter.AllowIP(context.Background(), fmt.Sprintf("10.0.0.%d", i))
	}

	assert.Equal(t, 0, limiter.cleanup(time.Now()))
	assert.Equal(t, 10, limiter.cleanup(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, limiter.GetStats()["fallback_limiters"])
}

func TestRateLimiterConcurrency(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	rateLimit := Rate{Limit: 100, Period: time.Minute}

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				res, err := limiter.Allow(context.Background(), "test:concurrent", rateLimit)
				if err == nil && res.Allowed {
					atomic.AddInt64(&allowed, 1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowed)
}

func TestIPRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := DefaultConfig()
	cfg.IPLimitPerMin = 2
	limiter, m := newFallbackLimiter(t, cfg)

	r := gin.New()
	r.Use(limiter.IPRateLimitMiddleware())
	r.GET("/protocols", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protocols", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
		} else {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, int64(1), m.blocks)

	// exempt paths are never limited
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 30, retryAfterSeconds(29500*time.Millisecond))
}
