package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
	"photo-triage/interfaces/api/middleware"
	"photo-triage/pkg/config"
)

// SetupTriageRoutes exposes the photo list and the batched review writes
// to owners and to clients holding a gallery token.
func SetupTriageRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	gallery := api.Group("/galleries/:id")
	protected := middleware.Protected(cfg.JWT.Secret)

	gallery.Get("/photos", protected, h.Triage.ListPhotos)
	gallery.Patch("/photos/status", protected, h.Triage.UpdateStatus)
	gallery.Patch("/photos/highlight", protected, h.Triage.UpdateHighlight)
	gallery.Get("/photos/:photoId/similar", protected, h.Triage.FindSimilar)
	gallery.Get("/stats", protected, h.Triage.GetStats)
}
