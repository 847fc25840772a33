package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, health *handlers.HealthHandler, name string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Server is running",
			"service": name,
		})
	})
	if health != nil {
		app.Get("/health/detailed", health.DetailedHealth)
	}
}
