package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
)

// RateCounter is the slice of the redis client the limiter needs.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit is a fixed-window counter per client IP, backed by redis so the
// budget holds across instances. Redis trouble fails open: throttling is
// protection, not a dependency worth a full outage.
func RateLimit(counter RateCounter, cfg config.RateLimitConfig, scope string, max int, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := counter.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("rate limit counter failed")
			c.Next()
			return
		}
		if count == 1 {
			counter.Expire(c.Request.Context(), key, cfg.Window)
		}

		if count > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}
