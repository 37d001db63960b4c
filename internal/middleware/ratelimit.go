// File: internal/middleware/ratelimit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gatherus_backend/internal/common"
	"gatherus_backend/internal/config"
)

// clientLimiter holds one client's limiter and its last access time for cleanup.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client IP. It is applied to the auth
// endpoints to slow down credential guessing.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	logger    *zap.Logger

	mu       sync.Mutex
	limiters map[string]*clientLimiter
	stopCh   chan struct{}
}

// NewRateLimiter creates a rate limiter from config and starts its cleanup loop.
func NewRateLimiter(cfg *config.Config, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		perSecond: rate.Limit(float64(cfg.AuthRatePerMinute) / 60.0),
		burst:     cfg.AuthRateBurst,
		logger:    logger.Named("RateLimiter"),
		limiters:  make(map[string]*clientLimiter),
		stopCh:    make(chan struct{}),
	}

	go rl.cleanupLoop(10 * time.Minute)

	return rl
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			rl.logger.Warn("Rate limit exceeded", zap.String("ip", c.ClientIP()), zap.String("path", c.Request.URL.Path))
			tooMany := common.NewAPIError(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
			c.AbortWithStatusJSON(tooMany.StatusCode, tooMany)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter.Allow()
}

// cleanupLoop drops limiters idle for longer than maxIdle.
func (rl *RateLimiter) cleanupLoop(maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-maxIdle)
			rl.mu.Lock()
			for key, cl := range rl.limiters {
				if cl.lastAccess.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop terminates the cleanup loop.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}
