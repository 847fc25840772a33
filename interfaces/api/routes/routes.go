package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
	"photo-triage/interfaces/api/middleware"
	"photo-triage/interfaces/api/websocket"
	"photo-triage/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, ws *websocket.WebSocketHandler, cfg *config.Config) {
	SetupHealthRoutes(app, h.Health, cfg.App.Name)

	api := app.Group("/api/v1", middleware.RateLimiter(&cfg.RateLimit))

	SetupAuthRoutes(api, h, cfg)
	SetupGalleryRoutes(api, h, cfg)
	SetupTriageRoutes(api, h, cfg)
	SetupActivityLogRoutes(api, h, cfg)
	SetupLogRoutes(api, h)

	if ws != nil {
		SetupWebSocketRoutes(app, ws, cfg)
	}
}
