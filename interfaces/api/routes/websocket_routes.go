package routes

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"

	"photo-triage/interfaces/api/middleware"
	"photo-triage/interfaces/api/websocket"
	"photo-triage/pkg/config"
)

// SetupWebSocketRoutes mounts the gallery room socket. Browsers cannot
// set headers on the upgrade, so the token rides in ?token=.
func SetupWebSocketRoutes(app *fiber.App, ws *websocket.WebSocketHandler, cfg *config.Config) {
	app.Get("/ws/galleries/:id",
		middleware.ProtectedWithQueryToken(cfg.JWT.Secret),
		ws.WebSocketUpgrade,
		fiberws.New(ws.HandleWebSocket),
	)
}
