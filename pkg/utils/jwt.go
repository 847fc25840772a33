package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"photo-triage/pkg/logger"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingToken = errors.New("missing token")
)

const (
	RolePhotographer = "photographer"
	RoleClient       = "client"

	tokenIssuer = "photo-triage"
	clockSkew   = 30 * time.Second
)

type JWTClaims struct {
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	GalleryID string `json:"gallery_id,omitempty"` // set on client tokens only
	jwt.RegisteredClaims
}

// UserContext is the authenticated principal stored in c.Locals("user").
// Photographers carry ID; clients carry GalleryID and a nil ID.
type UserContext struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Role      string
	GalleryID uuid.UUID
}

func (u *UserContext) IsClient() bool {
	return u.Role == RoleClient
}

// ActorID identifies the principal in the activity log.
func (u *UserContext) ActorID() string {
	if u.IsClient() {
		return RoleClient
	}
	return u.ID.String()
}

// GenerateToken signs claims with HS256 and the given lifetime. The
// subject is the user id for photographers and "gallery:<id>" for clients.
func GenerateToken(claims JWTClaims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Issuer = tokenIssuer
	claims.Subject = claims.UserID
	if claims.Role == RoleClient {
		claims.Subject = "gallery:" + claims.GalleryID
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ValidateTokenStringToUUID(tokenString, jwtSecret string) (*UserContext, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userCtx := &UserContext{
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}

	if claims.Role == RoleClient {
		galleryID, err := uuid.Parse(claims.GalleryID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		userCtx.GalleryID = galleryID
		return userCtx, nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userCtx.ID = userID
	return userCtx, nil
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header,
// or "" for any other shape.
func ExtractTokenFromHeader(authHeader string) string {
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return ""
	}
	return token
}

func GetUserFromContext(c *fiber.Ctx) (*UserContext, error) {
	user := c.Locals("user")
	if user == nil {
		logger.Warn(logger.CategoryAuth, "get_user_context", "User not found in context", nil)
		return nil, errors.New("user not found in context")
	}

	userCtx, ok := user.(*UserContext)
	if !ok {
		logger.Warn(logger.CategoryAuth, "get_user_context", "Invalid user context type", map[string]interface{}{"type": logger.GetTypeName(user)})
		return nil, errors.New("invalid user context type")
	}

	return userCtx, nil
}
