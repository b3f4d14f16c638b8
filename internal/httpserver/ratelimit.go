package httpserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit applies a per-client token bucket, keyed by real IP. The OTP
// request route sits behind it so the code store cannot be churned from one
// address.
func RateLimit(r rate.Limit, burst int) echo.MiddlewareFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(r, burst)
			limiters[key] = l
		}
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiterFor(c.RealIP()).Allow() {
				return fail(c, http.StatusTooManyRequests, "too many requests, slow down")
			}
			return next(c)
		}
	}
}
