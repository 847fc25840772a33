package serviceimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
)

// loadGallery fetches a gallery and checks that p may act on it: the
// owner, or a client whose token was issued for this gallery.
func loadGallery(ctx context.Context, repo repositories.GalleryRepository, p services.Principal, galleryID uuid.UUID) (*models.Gallery, error) {
	gallery, err := repo.GetByID(ctx, galleryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrGalleryNotFound
		}
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}

	if p.Client {
		if p.GalleryID != gallery.ID {
			return nil, services.ErrForbidden
		}
		return gallery, nil
	}
	if p.UserID == uuid.Nil || p.UserID != gallery.OwnerID {
		return nil, services.ErrForbidden
	}
	return gallery, nil
}

func pageOffset(page, limit int) int {
	offset := (page - 1) * limit
	if offset < 0 {
		return 0
	}
	return offset
}
