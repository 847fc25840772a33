package services

import (
	"context"

	"github.com/google/uuid"
	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/pkg/triage"
)

// StatsCache holds gallery counts between writes.
type StatsCache interface {
	Get(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, bool)
	Set(ctx context.Context, galleryID uuid.UUID, stats *models.GalleryStats) error
	Invalidate(ctx context.Context, galleryID uuid.UUID) error
}

// PhotosUpdatedEvent is pushed to everyone watching a gallery after a
// batched write commits.
type PhotosUpdatedEvent struct {
	GalleryID uuid.UUID            `json:"galleryId"`
	Kind      string               `json:"kind"` // status or highlight
	IDs       []string             `json:"ids"`
	Status    string               `json:"status,omitempty"`
	Highlight *bool                `json:"highlight,omitempty"`
	Stats     *models.GalleryStats `json:"stats"`
	ActorID   string               `json:"actorId"`
}

// TriageNotifier fans out PhotosUpdatedEvent.
type TriageNotifier interface {
	PhotosUpdated(event PhotosUpdatedEvent)
}

type TriageService interface {
	// ListPhotos returns the gallery's photos in order, narrowed by filter
	ListPhotos(ctx context.Context, p Principal, galleryID uuid.UUID, filter triage.FilterMode) ([]models.Photo, error)

	// UpdateStatus writes one batched review status change
	UpdateStatus(ctx context.Context, p Principal, galleryID uuid.UUID, ids []uuid.UUID, status models.ReviewStatus) (int64, *models.GalleryStats, error)

	// UpdateHighlight writes one batched highlight change
	UpdateHighlight(ctx context.Context, p Principal, galleryID uuid.UUID, ids []uuid.UUID, value bool) (int64, *models.GalleryStats, error)

	GetStats(ctx context.Context, p Principal, galleryID uuid.UUID) (*models.GalleryStats, error)

	// RefreshStats recomputes and caches counts without an access check
	RefreshStats(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, error)

	FindSimilar(ctx context.Context, p Principal, galleryID, photoID uuid.UUID, limit int) ([]repositories.SimilarPhoto, error)
}
