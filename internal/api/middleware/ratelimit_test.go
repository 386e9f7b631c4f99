package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/amirsaid123/UY-Bor/internal/config"
)

func newLimitedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rm := NewRateLimiterMiddleware(cfg)
	r.GET("/ping", rm.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func doPing(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_SoftLimitAsksForCaptcha(t *testing.T) {
	r := newLimitedRouter(&config.Config{
		RateLimitSoftBucketSize: 2,
		RateLimitSoftRefillRate: 0,
		RateLimitHardBucketSize: 100,
		RateLimitHardRefillRate: 0,
	})

	assert.Equal(t, http.StatusOK, doPing(r, nil).Code)
	assert.Equal(t, http.StatusOK, doPing(r, nil).Code)
	assert.Equal(t, http.StatusTeapot, doPing(r, nil).Code)
}

func TestRateLimiter_HardLimitRejects(t *testing.T) {
	r := newLimitedRouter(&config.Config{
		RateLimitSoftBucketSize: 100,
		RateLimitSoftRefillRate: 0,
		RateLimitHardBucketSize: 3,
		RateLimitHardRefillRate: 0,
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doPing(r, nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doPing(r, nil).Code)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	r := newLimitedRouter(&config.Config{
		RateLimitSoftBucketSize: 1,
		RateLimitSoftRefillRate: 0,
		RateLimitHardBucketSize: 100,
		RateLimitHardRefillRate: 0,
	})

	assert.Equal(t, http.StatusOK, doPing(r, map[string]string{"X-BFP": "client-a"}).Code)
	assert.Equal(t, http.StatusTeapot, doPing(r, map[string]string{"X-BFP": "client-a"}).Code)

	// A different fingerprint gets its own bucket
	assert.Equal(t, http.StatusOK, doPing(r, map[string]string{"X-BFP": "client-b"}).Code)
}
