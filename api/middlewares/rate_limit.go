package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorSet keeps one token bucket per client IP.
type visitorSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newVisitorSet(rps float64, burst int) *visitorSet {
	if burst < 1 {
		burst = 1
	}
	return &visitorSet{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (s *visitorSet) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(s.limit, s.burst)
		s.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// evictIdle forgets visitors not seen for longer than idle.
func (s *visitorSet) evictIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for ip, v := range s.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(s.visitors, ip)
			evicted++
		}
	}
	return evicted
}

// RateLimiter applies a per-IP token bucket.
type RateLimiter struct {
	visitors *visitorSet
	message  string
}

// NewRateLimiter allows rps requests per second per IP with bursts of up to burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: newVisitorSet(rps, burst),
		message:  "Too many requests. Please slow down.",
	}
}

// NewWriteRateLimiter is the stricter limiter for graph mutations: a tenth of the
// general rate with a burst of at most 20.
func NewWriteRateLimiter(rps float64, burst int) *RateLimiter {
	if burst > 20 {
		burst = 20
	}
	return &RateLimiter{
		visitors: newVisitorSet(rps/10, burst),
		message:  "Too many changes. Please wait and try again.",
	}
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.visitors.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": l.message,
			})
			return
		}

		c.Next()
	}
}

// Cleanup drops idle visitors every interval until stop is closed.
func (l *RateLimiter) Cleanup(interval, idle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.visitors.evictIdle(idle)
		case <-stop:
			return
		}
	}
}
