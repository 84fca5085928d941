package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *time.Time) {
	t.Helper()
	limiter := NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 3)
		for i := range 3 {
			ok, remaining := limiter.Allow("10.0.0.1")
			assert.True(t, ok, "request %d", i+1)
			assert.Equal(t, 2-i, remaining)
		}
		ok, _ := limiter.Allow("10.0.0.1")
		assert.False(t, ok)
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1)
		ok, _ := limiter.Allow("10.0.0.1")
		assert.True(t, ok)
		ok, _ = limiter.Allow("10.0.0.1")
		assert.False(t, ok)
		ok, _ = limiter.Allow("10.0.0.2")
		assert.True(t, ok)
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter, now := newTestLimiter(t, 1)
		ok, _ := limiter.Allow("10.0.0.1")
		assert.True(t, ok)
		ok, _ = limiter.Allow("10.0.0.1")
		assert.False(t, ok)

		*now = now.Add(time.Minute)
		ok, _ = limiter.Allow("10.0.0.1")
		assert.True(t, ok)
	})

	t.Run("concurrent access", func(t *testing.T) {
		limiter := NewRateLimiter(50, time.Minute)
		defer limiter.Stop()

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("burst"); ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)

	router := gin.New()
	router.Use(RequestID(), RateLimit(limiter))
	router.POST("/auth/login", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := range 2 {
		w := serve(router, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(router, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
