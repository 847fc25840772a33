package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
	"photo-triage/interfaces/api/middleware"
	"photo-triage/pkg/config"
)

func SetupActivityLogRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	api.Get("/galleries/:id/activity", middleware.Protected(cfg.JWT.Secret), h.ActivityLog.GetActivityLogs)
}
