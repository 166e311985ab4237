package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/pkg/config"
)

func newTestLimiter(t *testing.T, perMinute, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{Enabled: true, RequestsPerMinute: perMinute, BurstSize: burst}, zap.NewNop())
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_BurstPerKey(t *testing.T) {
	rl := newTestLimiter(t, 60, 2)

	for _, key := range []string{"10.0.0.1", "10.0.0.2"} {
		assert.True(t, rl.Allow(key), key)
		assert.True(t, rl.Allow(key), key)
		assert.False(t, rl.Allow(key), "%s is over its burst", key)
	}
}

func TestRateLimiter_DisabledAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1}, zap.NewNop())
	defer rl.Stop()

	for i := 0; i < 20; i++ {
		require.True(t, rl.Allow("10.0.0.1"))
	}
	assert.Empty(t, rl.limiters, "no buckets are kept while disabled")
}

func TestRateLimiter_NormalizesConfig(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true}, zap.NewNop())
	defer rl.Stop()

	assert.Equal(t, 1, rl.config.RequestsPerMinute)
	assert.Equal(t, 1, rl.config.BurstSize)
	assert.Equal(t, 10*time.Minute, rl.config.CleanupInterval)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimitConfigFrom(t *testing.T) {
	cfg := RateLimitConfigFrom(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 120, BurstSize: 4})

	assert.Equal(t, RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 120,
		BurstSize:         4,
		CleanupInterval:   10 * time.Minute,
	}, cfg)
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	tests := []struct {
		perMinute int
		want      int
	}{
		{6, 10},
		{7, 9},
		{60, 1},
		{6000, 1},
	}

	for _, tt := range tests {
		rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: tt.perMinute, BurstSize: 1}, zap.NewNop())
		assert.Equal(t, tt.want, rl.RetryAfter(), "%d per minute", tt.perMinute)
		rl.Stop()
	}
}

func TestRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	rl := newTestLimiter(t, 60, 1)

	require.True(t, rl.Allow("idle"))
	require.False(t, rl.Allow("idle"))

	rl.cleanup(time.Now().Add(-time.Hour))
	assert.Len(t, rl.limiters, 1, "recently seen buckets survive")

	rl.cleanup(time.Now().Add(time.Second))
	assert.Empty(t, rl.limiters)
	assert.True(t, rl.Allow("idle"), "a fresh bucket starts full")
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := newTestLimiter(t, 60, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := newTestLimiter(t, 6, 1)

	router := gin.New()
	router.Use(RateLimitMiddleware(rl, zap.NewNop()))
	router.GET("/page", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	request := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, request("192.0.2.1:1234").Code)

	w := request("192.0.2.1:5678")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "10", w.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	assert.Equal(t, http.StatusOK, request("192.0.2.2:1234").Code, "other clients keep their own bucket")
}
