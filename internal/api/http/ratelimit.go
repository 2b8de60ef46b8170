package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/healthcare-accounts/pkg/util"
)

// LoginRateLimiter bounds login attempts per client IP using a Redis counter
// with a rolling TTL window. Fails open when Redis is unreachable: login must
// not depend on the cache being up.
func LoginRateLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return c.Next()
		}

		key := "login-rate:" + c.IP()
		ctx := c.UserContext()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			return apperrors.NewRateLimited()
		}
		return c.Next()
	}
}
