package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/pkg/errors"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// RetryAfter is the hint returned to throttled clients, in seconds.
	RetryAfter int
}

// RateLimiter applies a per-client token bucket. Used on the auth endpoints
// to slow credential guessing.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	config   RateLimiterConfig
	lastSeen time.Duration
}

type clientLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RetryAfter <= 0 {
		config.RetryAfter = 60
	}
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		config:   config,
		lastSeen: 10 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, cl := range rl.clients {
			if time.Since(cl.seen) > rl.lastSeen {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		cl, ok := rl.clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
			rl.clients[ip] = cl
		}
		cl.seen = time.Now()
		rl.mu.Unlock()

		if !cl.limiter.Allow() {
			handler.Error(c, errors.RateLimited(rl.config.RetryAfter))
			c.Abort()
			return
		}
		c.Next()
	}
}
