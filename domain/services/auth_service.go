package services

import (
	"context"

	"github.com/google/uuid"
	"photo-triage/domain/dto"
	"photo-triage/domain/models"
)

type AuthService interface {
	// Register creates a photographer account with a bcrypt password
	Register(ctx context.Context, req *dto.RegisterRequest) (token string, user *models.User, err error)

	// Login checks email and password
	Login(ctx context.Context, req *dto.LoginRequest) (token string, user *models.User, err error)

	// GetGoogleAuthURL returns the Google OAuth authorization URL
	GetGoogleAuthURL(state string) string

	// HandleGoogleCallback processes the Google OAuth callback
	HandleGoogleCallback(ctx context.Context, code string) (token string, user *models.User, err error)

	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
