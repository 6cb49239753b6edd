package middleware

import (
	"time"

	"github.com/fadilmartias/recruitai/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter limits each client IP to max requests per sliding expiration
// window. Every call builds its own counter storage. Zero values fall back to 50 per
// minute. Rejections use the standard error envelope.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max == 0 {
		max = 50
	}
	if expiration == 0 {
		expiration = 1 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusTooManyRequests,
				Message: "too many requests, retry later",
				Details: fiber.Map{"retry_after_seconds": int(expiration.Seconds())},
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
