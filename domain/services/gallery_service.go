package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"photo-triage/domain/dto"
	"photo-triage/domain/models"
)

type GalleryService interface {
	CreateGallery(ctx context.Context, ownerID uuid.UUID, req *dto.CreateGalleryRequest) (*models.Gallery, error)
	ListGalleries(ctx context.Context, ownerID uuid.UUID, vertical models.Vertical, page, limit int) ([]models.Gallery, int64, error)

	// GetGallery returns the gallery if p may see it
	GetGallery(ctx context.Context, p Principal, galleryID uuid.UUID) (*models.Gallery, error)

	// GrantAccess exchanges a client access code for a gallery-scoped token
	GrantAccess(ctx context.Context, galleryID uuid.UUID, accessCode string) (token string, expiresAt time.Time, err error)

	// AddPhotos registers uploaded photos, appended after existing ones
	AddPhotos(ctx context.Context, p Principal, galleryID uuid.UUID, uploads []dto.PhotoUpload) ([]models.Photo, error)

	DeleteGallery(ctx context.Context, p Principal, galleryID uuid.UUID) error
}
