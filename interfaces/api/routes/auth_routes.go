package routes

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/interfaces/api/handlers"
	"photo-triage/interfaces/api/middleware"
	"photo-triage/pkg/config"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	auth := api.Group("/auth")

	auth.Post("/register", middleware.AuthRateLimiter(&cfg.RateLimit), h.Auth.Register)
	auth.Post("/login", middleware.AuthRateLimiter(&cfg.RateLimit), h.Auth.Login)
	auth.Get("/google", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)

	auth.Get("/me", middleware.Protected(cfg.JWT.Secret), h.Auth.GetCurrentUser)
	auth.Post("/logout", h.Auth.Logout)
}
