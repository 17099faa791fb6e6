package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
)

const (
	limiterIdleTTL  = 10 * time.Minute
	limiterSweepLen = 10_000
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per authenticated user.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	rps      rate.Limit
	burst    int
	metrics  *metrics.Metrics
	now      func() time.Time

	// lastSweep spaces idle sweeps at least limiterIdleTTL apart.
	lastSweep time.Time
}

func NewRateLimiter(rps float64, burst int, m *metrics.Metrics) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*userLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		metrics:  m,
		now:      time.Now,
	}
}

// Allow reports whether key may spend one token now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.limiters) >= limiterSweepLen && now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	ul, ok := l.limiters[key]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = ul
	}
	ul.lastSeen = now
	return ul.limiter.AllowN(now, 1)
}

func (l *RateLimiter) sweep(now time.Time) {
	for k, ul := range l.limiters {
		if now.Sub(ul.lastSeen) > limiterIdleTTL {
			delete(l.limiters, k)
		}
	}
	l.lastSweep = now
}

// WithClock replaces the time source. For tests.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.now = now
	return l
}

// Len is the number of tracked buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware must run after RequireAuth. A non-positive rate disables it.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rps <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP()
		if user := GetUser(c.Request.Context()); user != nil {
			key = user.ID
		}

		if !l.Allow(key) {
			l.metrics.RateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "请求过于频繁，请稍后再试"})
			return
		}
		c.Next()
	}
}
