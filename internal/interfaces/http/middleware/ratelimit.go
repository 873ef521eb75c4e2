package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/utils"
)

// RateLimiter is a Redis fixed-window counter keyed by actor, falling back
// to client IP. All instances share the counters through Redis.
type RateLimiter struct {
	redisClient *redis.Client
	limit       int
	window      time.Duration
	logger      logger.Interface
	now         func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		limit:       limit,
		window:      window,
		logger:      logger,
		now:         time.Now,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := "ip:" + c.ClientIP()
		if actor, ok := GetActor(c); ok {
			subject = "actor:" + actor.ID
		}
		windowBucket := rl.now().Unix() / int64(rl.window.Seconds())
		key := fmt.Sprintf("civictrack:ratelimit:%s:%d", subject, windowBucket)

		ctx := c.Request.Context()
		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis outages must not block complaint intake.
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		if count == 1 {
			rl.redisClient.Expire(ctx, key, rl.window+time.Second)
		}

		if count > int64(rl.limit) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
