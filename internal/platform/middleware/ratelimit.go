package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig bounds the request rate per client. QC runs are the
// expensive path, so the limit protects the checker pipeline rather
// than the database.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig allows sustained batch submission from an EMR
// integration while still capping a runaway client.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// bucket is a token bucket refilled lazily on each take.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	last     time.Time
}

func newBucket(rate float64, burst int) *bucket {
	return &bucket{
		tokens:   float64(burst),
		capacity: float64(burst),
		rate:     rate,
		last:     time.Now(),
	}
}

// take spends one token. When the bucket is empty it reports the whole
// seconds a client should wait before retrying.
func (b *bucket) take() (ok bool, retryAfter int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/b.rate) + 1
}

// limiter keeps one bucket per client address.
type limiter struct {
	mu      sync.RWMutex
	clients map[string]*bucket
	cfg     RateLimitConfig
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		clients: make(map[string]*bucket),
		cfg:     cfg,
	}
}

func (l *limiter) client(addr string) *bucket {
	l.mu.RLock()
	b, ok := l.clients[addr]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.clients[addr]; ok {
		return b
	}
	b = newBucket(l.cfg.RequestsPerSecond, l.cfg.BurstSize)
	l.clients[addr] = b
	return b
}

// RateLimit returns per-client rate limiting middleware keyed by the
// caller's real IP.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	lim := newLimiter(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limitHeader)

			ok, retryAfter := lim.client(c.RealIP()).take()
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
