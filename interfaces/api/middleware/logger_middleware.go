package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"photo-triage/pkg/logger"
)

// LoggerMiddleware writes one api log entry per request.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		data := map[string]interface{}{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   status,
			"duration": time.Since(start).String(),
			"ip":       c.IP(),
		}
		if err != nil || status >= fiber.StatusInternalServerError {
			logger.Warn(logger.CategoryAPI, "request", "Request failed", data)
		} else {
			logger.API("request", "Request handled", data)
		}
		return err
	}
}

// CorsMiddleware allows the configured comma-separated origins.
func CorsMiddleware(origins string) fiber.Handler {
	if strings.TrimSpace(origins) == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Admin-Token",
		AllowCredentials: origins != "*",
	})
}
