package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/requestcontext"
	"github.com/piresc/coingate/internal/utils"
)

// RateLimiterConfig contains configuration for the rate limiter
type RateLimiterConfig struct {
	RedisClient *redis.Client
	Key         string        // Key prefix for Redis
	Limit       int           // Maximum number of requests
	Period      time.Duration // Time period for the limit
}

// RateLimiterMiddleware is a fixed-window limiter keyed by owner, or client IP when unauthenticated.
// Redis errors fail open.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := c.RealIP()
			if ownerID, ok := c.Get(requestcontext.EchoOwnerID).(string); ok && ownerID != "" {
				identifier = ownerID
			}

			key := fmt.Sprintf("%s:%s:%s", config.Key, c.Path(), identifier)
			ctx := c.Request().Context()

			var incr *redis.IntCmd
			var ttl *redis.DurationCmd
			_, err := config.RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				ttl = pipe.TTL(ctx, key)
				return nil
			})
			if err != nil {
				logger.WarnCtx(ctx, "Rate limiter unavailable", logger.Err(err))
				return next(c)
			}

			// first hit of the window, or a key that lost its expiry
			if ttl.Val() < 0 {
				config.RedisClient.Expire(ctx, key, config.Period)
			}

			count := int(incr.Val())
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))

			if count > config.Limit {
				if remaining := ttl.Val(); remaining > 0 {
					c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(remaining.Seconds()), 10))
				}
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return utils.ErrorResponseHandler(c, http.StatusTooManyRequests, "Rate limit exceeded")
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
			return next(c)
		}
	}
}

// OwnerRateLimiter limits requests per authenticated owner
func OwnerRateLimiter(limit int, period time.Duration, redisClient *redis.Client) echo.MiddlewareFunc {
	return RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: redisClient,
		Key:         "gateway:rate:owner",
		Limit:       limit,
		Period:      period,
	})
}
