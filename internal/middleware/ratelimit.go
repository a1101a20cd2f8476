package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
)

// RateLimiter applies fixed-window per-client limits backed by redis. A nil
// redis client disables limiting entirely, which keeps single-box deployments
// working without a redis instance.
type RateLimiter struct {
	log *logger.Logger
	rdb *redis.Client
}

func NewRateLimiter(baseLog *logger.Logger, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		log: baseLog.With("middleware", "RateLimiter"),
		rdb: rdb,
	}
}

// Limit allows at most maxRequests per window per client IP for the named
// scope. The counter key expires with the window, so windows reset themselves.
// Redis failures fail open: a broken limiter must not take the companion
// offline.
func (rl *RateLimiter) Limit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			rl.log.Warn("rate limit check failed, allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.rdb.Expire(ctx, key, window).Err(); err != nil {
				rl.log.Warn("failed to set rate limit window", "scope", scope, "error", err)
			}
		}

		if count > int64(maxRequests) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
