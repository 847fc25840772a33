package repositories

import (
	"context"

	"github.com/google/uuid"
	"photo-triage/domain/models"
)

type GalleryRepository interface {
	Create(ctx context.Context, gallery *models.Gallery) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gallery, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, vertical models.Vertical, offset, limit int) ([]models.Gallery, int64, error)
	// ListRecentlyActive returns galleries with triage activity since the given number of hours.
	ListRecentlyActive(ctx context.Context, hours int, limit int) ([]uuid.UUID, error)
	Update(ctx context.Context, gallery *models.Gallery) error
	Delete(ctx context.Context, id uuid.UUID) error
}
