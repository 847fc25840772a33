package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

// Protected validates the bearer JWT (or the auth_token cookie) and
// stores the caller in c.Locals("user").
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			token = c.Cookies("auth_token")
		}
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			logger.AuthError("validate_token", "Token validation failed", err, map[string]interface{}{
				"path": c.Path(),
				"ip":   c.IP(),
			})
			return tokenError(c, err)
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}

// PhotographerOnly rejects gallery-scoped client tokens.
func PhotographerOnly() fiber.Handler {
	return RequireRole(utils.RolePhotographer)
}

// RequireRole middleware checks if user has specific role
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}
		if user.Role != role {
			return utils.ForbiddenResponse(c, "Insufficient permissions")
		}
		return c.Next()
	}
}

// ProtectedWithQueryToken accepts the token from the header or ?token=.
// Browsers cannot set headers on websocket upgrades.
func ProtectedWithQueryToken(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			return tokenError(c, err)
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}

func tokenError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrExpiredToken):
		return utils.UnauthorizedResponse(c, "Token has expired")
	case errors.Is(err, utils.ErrInvalidToken):
		return utils.UnauthorizedResponse(c, "Invalid token")
	case errors.Is(err, utils.ErrMissingToken):
		return utils.UnauthorizedResponse(c, "Missing token")
	default:
		return utils.UnauthorizedResponse(c, "Token validation failed")
	}
}
