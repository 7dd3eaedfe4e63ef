package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sweetmart/sweetshop/internal/pkg/metrics"
)

// RateLimiter decides whether one more request for key is allowed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const limiterSweepInterval = 5 * time.Minute

// MemoryLimiter is a per-key token bucket limiter local to one process.
type MemoryLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	limit       rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter allows requests requests per window for each key, all of
// them available as a burst.
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	limit := rate.Inf
	if requests > 0 {
		limit = rate.Limit(float64(requests) / window.Seconds())
	}
	return &MemoryLimiter{limit: limit, burst: requests, lastCleanup: time.Now()}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.limiter(key).Allow(), nil
}

func (l *MemoryLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.limit, l.burst))
	l.sweep()
	return actual.(*rate.Limiter)
}

// sweep drops buckets that have refilled completely, i.e. idle keys.
func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < limiterSweepInterval {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit rejects requests over the limiter's budget with 429. Requests are
// keyed by route and client IP. Limiter failures let the request through.
func RateLimit(limiter RateLimiter, route string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := route + ":" + c.RealIP()

			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				log.Debug().Str("key", key).Str("path", c.Request().URL.Path).Msg("rate limit exceeded")
				c.Response().Header().Set("Retry-After", strconv.Itoa(1))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
