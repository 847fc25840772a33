package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"photo-triage/pkg/config"
)

// RateLimiter limits requests per client IP. A non-positive Max turns it off.
func RateLimiter(cfg *config.RateLimitConfig) fiber.Handler {
	return newLimiter(cfg.Max, cfg, ipKey, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.")
}

// AuthRateLimiter is the stricter limit for login and access-code
// endpoints, a quarter of the general budget. Access-code attempts are
// counted per gallery so guessing one gallery's code does not lock the
// caller out of the others.
func AuthRateLimiter(cfg *config.RateLimitConfig) fiber.Handler {
	max := cfg.Max / 4
	if cfg.Max > 0 && max < 1 {
		max = 1
	}
	return newLimiter(max, cfg, galleryKey, "AUTH_RATE_LIMIT_EXCEEDED", "Too many authentication attempts. Please try again later.")
}

func ipKey(c *fiber.Ctx) string {
	return c.IP()
}

func galleryKey(c *fiber.Ctx) string {
	if id := c.Params("id"); id != "" {
		return c.IP() + "|" + id
	}
	return "auth|" + c.IP()
}

func newLimiter(max int, cfg *config.RateLimitConfig, key func(*fiber.Ctx) string, code, message string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   cfg.Window,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   message,
				"code":    code,
			})
		},
	})
}
