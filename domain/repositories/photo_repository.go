package repositories

import (
	"context"

	"github.com/google/uuid"
	"photo-triage/domain/models"
)

// SimilarPhoto is a near-duplicate candidate with its cosine similarity.
type SimilarPhoto struct {
	Photo      models.Photo
	Similarity float64
}

// PhotoFilter narrows a gallery listing. Zero value lists everything.
type PhotoFilter struct {
	Status    *models.ReviewStatus
	Highlight *bool
}

type PhotoRepository interface {
	CreateBatch(ctx context.Context, photos []*models.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	NextPosition(ctx context.Context, galleryID uuid.UUID) (int, error)

	// ListByGallery returns photos in upload order.
	ListByGallery(ctx context.Context, galleryID uuid.UUID, filter PhotoFilter) ([]models.Photo, error)
	// CountInGallery counts how many of ids belong to galleryID.
	CountInGallery(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID) (int64, error)

	// Batched triage writes. Each runs one UPDATE and inserts activity in
	// the same transaction.
	UpdateStatus(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, status models.ReviewStatus, activity *models.ActivityLog) (int64, error)
	UpdateHighlight(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, value bool, activity *models.ActivityLog) (int64, error)

	GetStats(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, error)
	FindSimilar(ctx context.Context, photo *models.Photo, limit int, threshold float64) ([]SimilarPhoto, error)
}
