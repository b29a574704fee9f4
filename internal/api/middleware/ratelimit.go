package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"mailroom/internal/utils"
	"mailroom/internal/utils/logger"
)

// Counter is a fixed-window request counter.
type Counter interface {
	GetRateLimitKey(clientID, endpointKey string) string
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int, error)
}

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Counter Counter

	// Default rate limits
	DefaultLimit rate.Limit
	DefaultBurst int

	// Endpoint-specific limits, keyed by METHOD:route
	EndpointLimits map[string]EndpointLimit
}

// EndpointLimit defines rate limits for specific endpoints
type EndpointLimit struct {
	Limit  rate.Limit
	Burst  int
	Window time.Duration
}

// allowance is the number of requests admitted per window.
func (l EndpointLimit) allowance() int {
	n := int(float64(l.Limit) * l.Window.Seconds())
	if n < l.Burst {
		n = l.Burst
	}
	return n
}

// Default rate limit configurations
var defaultEndpointLimits = map[string]EndpointLimit{
	// List and campaign management - stricter limits
	"POST:/api/lists/create": {
		Limit:  30.0 / 60.0, // 30 requests per minute
		Burst:  10,
		Window: time.Minute,
	},
	"POST:/api/field/:listId": {
		Limit:  30.0 / 60.0,
		Burst:  10,
		Window: time.Minute,
	},
	"POST:/api/campaigns/create": {
		Limit:  30.0 / 60.0,
		Burst:  10,
		Window: time.Minute,
	},
	"POST:/api/campaigns/send": {
		Limit:  10.0 / 60.0, // 10 requests per minute
		Burst:  5,
		Window: time.Minute,
	},
}

var rateLog = logger.New("RATELIMIT")

// RateLimiter creates a new rate limiting middleware. Requests are allowed
// through when the counter is unavailable.
func RateLimiter(config RateLimitConfig) echo.MiddlewareFunc {
	// Set default values if not provided
	if config.DefaultLimit == 0 {
		config.DefaultLimit = 600.0 / 60.0 // 600 requests per minute
	}
	if config.DefaultBurst == 0 {
		config.DefaultBurst = 100
	}
	if config.EndpointLimits == nil {
		config.EndpointLimits = defaultEndpointLimits
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			endpointKey := fmt.Sprintf("%s:%s", c.Request().Method, c.Path())
			limit := getLimitConfig(endpointKey, config)
			key := config.Counter.GetRateLimitKey(getClientID(c), endpointKey)

			count, err := config.Counter.IncrementRateLimit(c.Request().Context(), key, limit.Window)
			if err != nil {
				rateLog.Warn("rate limit counter unavailable: %v", err)
				return next(c)
			}

			allowance := limit.allowance()
			remaining := allowance - count
			if remaining < 0 {
				remaining = 0
			}
			setRateLimitHeaders(c, allowance, remaining, time.Now().Add(limit.Window))

			if count > allowance {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			}

			return next(c)
		}
	}
}

// getClientID prefers the authenticated user and falls back to the IP
func getClientID(c echo.Context) string {
	if user := UserFromContext(c); user != nil {
		return fmt.Sprintf("user:%d", user.ID)
	}
	return fmt.Sprintf("ip:%s", utils.GetIPAddress(c.Request()))
}

// getLimitConfig returns the rate limit configuration for an endpoint
func getLimitConfig(endpointKey string, config RateLimitConfig) EndpointLimit {
	if limit, exists := config.EndpointLimits[endpointKey]; exists {
		return limit
	}
	return EndpointLimit{
		Limit:  config.DefaultLimit,
		Burst:  config.DefaultBurst,
		Window: time.Minute,
	}
}

// setRateLimitHeaders sets rate limit headers in the response
func setRateLimitHeaders(c echo.Context, limit, remaining int, reset time.Time) {
	c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}

// NewRateLimitConfig builds the limiter settings from requests per minute
// and burst.
func NewRateLimitConfig(counter Counter, perMinute, burst int) RateLimitConfig {
	return RateLimitConfig{
		Counter:        counter,
		DefaultLimit:   rate.Limit(float64(perMinute) / 60.0),
		DefaultBurst:   burst,
		EndpointLimits: defaultEndpointLimits,
	}
}
