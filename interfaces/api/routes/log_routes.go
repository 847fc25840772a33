package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
)

// SetupLogRoutes exposes the log files behind the admin token
func SetupLogRoutes(api fiber.Router, h *handlers.Handlers) {
	admin := api.Group("/admin")
	admin.Get("/logs", h.Log.GetLogs)
	admin.Get("/logs/files", h.Log.GetLogFiles)
	admin.Get("/logs/stats", h.Log.GetLogStats)
}
