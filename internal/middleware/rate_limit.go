package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines a fixed-window request budget.
type RateLimitConfig struct {
	Window    time.Duration
	Limit     int
	KeyPrefix string
}

// RateLimiter enforces per-client request budgets backed by Redis. With a
// nil client it lets everything through, so the API keeps working without
// Redis in development.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "ratelimit"
	}
	return &RateLimiter{redis: redisClient, config: config}
}

// Middleware returns a gin middleware enforcing the limit per client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", rl.config.KeyPrefix, c.ClientIP())
		count, err := rl.redis.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis trouble should not take the API down with it.
			c.Next()
			return
		}
		if count == 1 {
			rl.redis.Expire(c.Request.Context(), key, rl.config.Window)
		}

		remaining := rl.config.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > rl.config.Limit {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
