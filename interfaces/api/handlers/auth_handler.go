package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"photo-triage/domain/dto"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
	frontendURL string
	tokenTTL    time.Duration
}

func NewAuthHandler(authService services.AuthService, frontendURL string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
		tokenTTL:    tokenTTL,
	}
}

// Register creates a photographer account
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	token, user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, "register", err)
	}
	return utils.CreatedResponse(c, dto.AuthResponse{Token: token, User: dto.UserToUserResponse(user)})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	token, user, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, "login", err)
	}
	logger.Auth("login", "Photographer logged in", map[string]interface{}{
		"user_id": user.ID.String(),
		"ip":      c.IP(),
	})
	return utils.SuccessResponse(c, dto.AuthResponse{Token: token, User: dto.UserToUserResponse(user)})
}

// GoogleLogin redirects to Google OAuth
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		logger.AuthError("google_login", "Failed to generate state", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate state")
	}

	// state is checked against this cookie on callback
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	logger.Auth("google_login", "Redirecting to Google OAuth", map[string]interface{}{"ip": c.IP()})
	return c.Redirect(h.authService.GetGoogleAuthURL(state))
}

// GoogleCallback handles the OAuth callback from Google
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies("oauth_state") {
		logger.AuthError("google_callback", "Invalid state parameter", nil, map[string]interface{}{"ip": c.IP()})
		return c.Redirect(h.frontendURL + "/?error=invalid_state")
	}
	c.ClearCookie("oauth_state")

	if errMsg := c.Query("error"); errMsg != "" {
		return c.Redirect(h.frontendURL + "/?error=" + url.QueryEscape(errMsg))
	}
	code := c.Query("code")
	if code == "" {
		return c.Redirect(h.frontendURL + "/?error=missing_code")
	}

	token, user, err := h.authService.HandleGoogleCallback(c.UserContext(), code)
	if err != nil {
		logger.AuthError("google_callback", "Failed to complete Google login", err, nil)
		return c.Redirect(h.frontendURL + "/?error=auth_failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	logger.Auth("google_callback", "Photographer authenticated with Google", map[string]interface{}{
		"user_id": user.ID.String(),
	})
	return c.Redirect(h.frontendURL + "/auth/callback?token=" + url.QueryEscape(token))
}

// GetCurrentUser returns the current authenticated photographer
func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	userCtx, err := utils.GetUserFromContext(c)
	if err != nil || userCtx.IsClient() {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	user, err := h.authService.GetCurrentUser(c.UserContext(), userCtx.ID)
	if err != nil {
		return serviceError(c, "get_current_user", err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie("auth_token")
	return utils.SuccessResponse(c, nil)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
