package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginRateConfig defines how many token requests a single client may make
// inside the window.
type LoginRateConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginRateLimiter throttles the token endpoint per client IP using Redis,
// slowing down credential-stuffing attempts. Tokens themselves are not
// rate limited once issued.
type LoginRateLimiter struct {
	redis  *redis.Client
	ctx    context.Context
	config LoginRateConfig
}

func NewLoginRateLimiter(redisClient *redis.Client, config LoginRateConfig) *LoginRateLimiter {
	return &LoginRateLimiter{
		redis:  redisClient,
		ctx:    context.Background(),
		config: config,
	}
}

// Middleware returns a Gin middleware enforcing the limit.
func (rl *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter, err := rl.CheckAttempt(clientIP)
		if err != nil {
			// Fail open: a Redis outage must not lock everyone out of login.
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail":      "Too many login attempts. Please try again later.",
				"retry_after": int(retryAfter.Seconds()),
			})
			return
		}

		c.Next()
	}
}

// CheckAttempt counts an attempt for the client and reports whether it is
// still inside the limit. Implemented as an INCR with expiry, a fixed
// window counter.
func (rl *LoginRateLimiter) CheckAttempt(clientIP string) (bool, time.Duration, error) {
	key := fmt.Sprintf("login_attempts:%s", clientIP)

	count, err := rl.redis.Incr(rl.ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	// First attempt in the window starts the clock.
	if count == 1 {
		if err := rl.redis.Expire(rl.ctx, key, rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.config.MaxAttempts) {
		ttl, err := rl.redis.TTL(rl.ctx, key).Result()
		if err != nil {
			ttl = rl.config.Window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
