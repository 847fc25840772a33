package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
	"photo-triage/interfaces/api/middleware"
	"photo-triage/pkg/config"
)

// SetupGalleryRoutes wires gallery management. Photographers own
// galleries; clients reach one gallery through the token issued by
// /access.
func SetupGalleryRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	galleries := api.Group("/galleries")

	// public: exchanges the client access code for a token
	galleries.Post("/:id/access", middleware.AuthRateLimiter(&cfg.RateLimit), h.Gallery.GrantAccess)

	protected := middleware.Protected(cfg.JWT.Secret)
	owner := middleware.PhotographerOnly()

	galleries.Post("/", protected, owner, h.Gallery.CreateGallery)
	galleries.Get("/", protected, owner, h.Gallery.ListGalleries)
	galleries.Get("/:id", protected, h.Gallery.GetGallery)
	galleries.Delete("/:id", protected, owner, h.Gallery.DeleteGallery)
	galleries.Post("/:id/photos", protected, owner, h.Gallery.AddPhotos)
	galleries.Post("/:id/import/drive", protected, owner, h.Import.ImportFromDrive)
}
