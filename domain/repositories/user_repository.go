package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"photo-triage/domain/models"
)

// UserRepository stores photographer accounts. Lookups return
// gorm.ErrRecordNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	SaveProfile(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
