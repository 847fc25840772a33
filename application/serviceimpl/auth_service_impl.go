package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
	"photo-triage/infrastructure/oauth"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	googleOAuth *oauth.GoogleOAuth
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	googleOAuth *oauth.GoogleOAuth,
	jwtSecret string,
	tokenTTL time.Duration,
) services.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		googleOAuth: googleOAuth,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", nil, services.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}
	if taken, err := s.userRepo.UsernameTaken(ctx, req.Username); err != nil {
		return "", nil, err
	} else if taken {
		return "", nil, services.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := dto.RegisterRequestToUser(req)
	user.ID = uuid.New()
	user.Email = email
	user.Password = string(hash)
	user.Role = utils.RolePhotographer
	user.Provider = "local"
	user.IsActive = true
	user.LastLogin = &now
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Auth("register", "Photographer registered", map[string]interface{}{"user_id": user.ID.String()})
	return token, user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, services.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if user.Password == "" || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.AuthError("login", "Login rejected", services.ErrInvalidCredentials, map[string]interface{}{"user_id": user.ID.String()})
		return "", nil, services.ErrInvalidCredentials
	}

	s.touchLastLogin(ctx, user, "login")

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *AuthServiceImpl) GetGoogleAuthURL(state string) string {
	return s.googleOAuth.GetAuthURL(state)
}

func (s *AuthServiceImpl) HandleGoogleCallback(ctx context.Context, code string) (string, *models.User, error) {
	oauthToken, err := s.googleOAuth.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, err
	}

	userInfo, err := s.googleOAuth.GetUserInfo(ctx, oauthToken)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.findOrCreateGoogleUser(ctx, userInfo)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	s.touchLastLogin(ctx, user, "google_callback")

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// touchLastLogin is best effort; a failed write never blocks sign-in.
func (s *AuthServiceImpl) touchLastLogin(ctx context.Context, user *models.User, action string) {
	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.AuthError(action, "Failed to update last login", err, map[string]interface{}{"user_id": user.ID.String()})
	}
}

func (s *AuthServiceImpl) findOrCreateGoogleUser(ctx context.Context, info *oauth.GoogleUserInfo) (*models.User, error) {
	user, err := s.userRepo.FindByProvider(ctx, "google", info.ID)
	if err == nil {
		if info.Picture != "" && user.Avatar != info.Picture {
			user.Avatar = info.Picture
			if err := s.userRepo.SaveProfile(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	// Link Google to an existing account with the same email
	user, err = s.userRepo.FindByEmail(ctx, info.Email)
	if err == nil {
		user.Provider = "google"
		user.ProviderID = info.ID
		if user.Avatar == "" && info.Picture != "" {
			user.Avatar = info.Picture
		}
		if err := s.userRepo.SaveProfile(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	now := time.Now()
	newUser := &models.User{
		ID:         uuid.New(),
		Email:      strings.ToLower(info.Email),
		Username:   generateUsername(info.Email, info.GivenName),
		FirstName:  info.GivenName,
		LastName:   info.FamilyName,
		Avatar:     info.Picture,
		Provider:   "google",
		ProviderID: info.ID,
		Role:       utils.RolePhotographer,
		IsActive:   true,
		LastLogin:  &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	logger.Auth("google_signup", "Photographer signed up with Google", map[string]interface{}{"user_id": newUser.ID.String()})
	return newUser, nil
}

func generateUsername(email, givenName string) string {
	base := strings.Split(email, "@")[0]
	if givenName != "" {
		base = givenName
	}
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(base))

	if len(base) < 3 {
		base = "user"
	}
	return fmt.Sprintf("%s_%s", base, uuid.New().String()[:8])
}

func (s *AuthServiceImpl) generateJWT(user *models.User) (string, error) {
	return utils.GenerateToken(utils.JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, s.jwtSecret, s.tokenTTL)
}
