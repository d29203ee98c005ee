package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	lastGC   time.Time
}

const visitorIdle = 10 * time.Minute

func newLimiterSet(rps float64, burst int) *limiterSet {
	return &limiterSet{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		lastGC:   time.Now(),
	}
}

func (s *limiterSet) allow(key string) bool {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastGC) > visitorIdle {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > visitorIdle {
				delete(s.visitors, k)
			}
		}
		s.lastGC = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func limit(set *limiterSet, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !set.allow(keyFn(c)) {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	return limit(newLimiterSet(rps, burst), func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitBySession falls back to the client IP before Session has run.
func RateLimitBySession(rps float64, burst int) gin.HandlerFunc {
	return limit(newLimiterSet(rps, burst), func(c *gin.Context) string {
		if sid := SessionID(c); sid != "" {
			return sid
		}
		return c.ClientIP()
	})
}
