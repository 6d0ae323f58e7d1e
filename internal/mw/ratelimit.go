package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter stores a rate limiter for each IP address.
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a limiter allowing perSec requests per second per
// client IP with the given burst.
func NewIPRateLimiter(perSec float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   rate.Limit(perSec),
		b:   burst,
	}
}

// GetLimiter returns the rate limiter for an IP address, creating it on first
// use. Lookup and creation share one lock so concurrent first requests from
// the same client end up on the same limiter.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// RateLimiter is a middleware for IP-based rate limiting using the
// server.rate_limit_per_sec and server.rate_limit_burst settings. Rejected
// requests get 429 with the API's {"error": ...} body.
func RateLimiter(perSec float64, burst int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(perSec, burst)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
