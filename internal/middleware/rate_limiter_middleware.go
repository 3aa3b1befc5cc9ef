package middleware

import (
	"time"

	"github.com/fadilmartias/career-gateway/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const msgTooManyRequests = "Too many requests"

// RateLimiter limits each client IP to max requests per sliding window.
// Defaults come from config.AppConfig; a non-positive max disables limiting.
func RateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return max <= 0
		},
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, fiber.StatusTooManyRequests, msgTooManyRequests)
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
