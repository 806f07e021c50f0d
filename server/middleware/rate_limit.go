// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter provides per-key rate limiting for the detection endpoints.
// Detection passes can call an external embedding provider, so the limit
// protects both the server and the provider quota.
type RateLimiter struct {
	mu        sync.Mutex
	limits    map[string]*rate.Limiter
	perMinute int
	burst     int
}

// NewRateLimiter creates a rate limiter allowing perMinute requests per key.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &RateLimiter{
		limits:    make(map[string]*rate.Limiter),
		perMinute: perMinute,
		burst:     perMinute,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an echo middleware keyed by requester identity: the
// X-User-ID header when present, the remote IP otherwise.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-User-ID")
			if key == "" {
				key = c.RealIP()
			}
			if !rl.Allow(key) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "detection rate limit exceeded")
			}
			return next(c)
		}
	}
}
