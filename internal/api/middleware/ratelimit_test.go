package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"mailroom/internal/models"
)

type fakeCounter struct {
	counts map[string]int
	err    error
}

func (f *fakeCounter) GetRateLimitKey(clientID, endpointKey string) string {
	return fmt.Sprintf("test:%s:%s", clientID, endpointKey)
}

func (f *fakeCounter) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func limitedEcho(counter Counter) *echo.Echo {
	e := echo.New()
	cfg := RateLimitConfig{
		Counter:      counter,
		DefaultLimit: rate.Limit(2.0 / 60.0),
		DefaultBurst: 2,
		EndpointLimits: map[string]EndpointLimit{
			"POST:/api/campaigns/send": {Limit: 1.0 / 60.0, Burst: 1, Window: time.Minute},
		},
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(userContextKey, &models.User{Base: models.Base{ID: 3}})
			return next(c)
		}
	})
	e.Use(RateLimiter(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/api/subscribe/:listId", ok)
	e.POST("/api/campaigns/send", ok)
	return e
}

func post(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	return rec
}

func TestRateLimiterRejectsOverAllowance(t *testing.T) {
	counter := &fakeCounter{counts: map[string]int{}}
	e := limitedEcho(counter)

	assert.Equal(t, http.StatusOK, post(e, "/api/subscribe/a").Code)
	rec := post(e, "/api/subscribe/b")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = post(e, "/api/subscribe/c")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Route pattern and user form the key, not the concrete path.
	require.Len(t, counter.counts, 1)
	assert.Equal(t, 3, counter.counts["test:user:3:POST:/api/subscribe/:listId"])
}

func TestRateLimiterUsesEndpointLimits(t *testing.T) {
	e := limitedEcho(&fakeCounter{counts: map[string]int{}})

	assert.Equal(t, http.StatusOK, post(e, "/api/campaigns/send").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(e, "/api/campaigns/send").Code)
	assert.Equal(t, http.StatusOK, post(e, "/api/subscribe/a").Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	e := limitedEcho(&fakeCounter{err: errors.New("redis down")})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, post(e, "/api/subscribe/a").Code)
	}
}

func TestEndpointLimitAllowance(t *testing.T) {
	assert.Equal(t, 30, EndpointLimit{Limit: 30.0 / 60.0, Burst: 10, Window: time.Minute}.allowance())
	assert.Equal(t, 10, EndpointLimit{Limit: 1.0 / 60.0, Burst: 10, Window: time.Minute}.allowance())
}
