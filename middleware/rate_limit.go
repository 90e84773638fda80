package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests allowed per key
	PerMinute int
	// Burst is how many requests may arrive at once
	Burst int
	// KeyFunc returns the limiting key (defaults to the client IP)
	KeyFunc func(c echo.Context) string
	// Message is shown when the limit is exceeded
	Message string
	// MaxAge drops limiters idle for longer than this
	MaxAge time.Duration
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	config RateLimitConfig
	limit  rate.Limit
	mu     sync.Mutex
	store  map[string]*limiterEntry
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.PerMinute <= 0 {
		config.PerMinute = 10
	}
	if config.Burst <= 0 {
		config.Burst = config.PerMinute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Muitas tentativas. Aguarde um minuto e tente novamente."
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 10 * time.Minute
	}
	return &RateLimiter{
		config: config,
		limit:  rate.Every(time.Minute / time.Duration(config.PerMinute)),
		store:  make(map[string]*limiterEntry),
	}
}

// get returns the limiter of key and sweeps idle ones
func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if entry, ok := rl.store[key]; ok {
		entry.updated = now
		return entry.limiter
	}

	lim := rate.NewLimiter(rl.limit, rl.config.Burst)
	rl.store[key] = &limiterEntry{limiter: lim, updated: now}

	for k, entry := range rl.store {
		if now.Sub(entry.updated) > rl.config.MaxAge {
			delete(rl.store, k)
		}
	}
	return lim
}

// Allow reports whether one more request for key fits the bucket
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.config.KeyFunc(c)
			if rl.Allow(key) {
				return next(c)
			}

			log.Warn().Str("key", key).Str("path", c.Request().URL.Path).Msg("rate limit exceeded")
			c.Response().Header().Set("Retry-After", "60")
			if c.Request().Header.Get("HX-Request") == "true" {
				return c.HTML(http.StatusTooManyRequests, `<div class="alert alert-error">`+rl.config.Message+`</div>`)
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
		}
	}
}

// NewLoginRateLimiter limits login and setup submissions per IP
func NewLoginRateLimiter(perMinute int) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		PerMinute: perMinute,
		Burst:     perMinute,
		Message:   "Muitas tentativas de login. Aguarde um minuto e tente novamente.",
	})
}
