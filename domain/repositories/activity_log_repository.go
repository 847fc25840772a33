package repositories

import (
	"context"

	"github.com/google/uuid"
	"photo-triage/domain/models"
)

type ActivityLogRepository interface {
	// Create a new activity log
	Create(ctx context.Context, log *models.ActivityLog) error

	// Get logs by gallery with pagination
	GetByGallery(ctx context.Context, galleryID uuid.UUID, offset, limit int) ([]models.ActivityLog, int64, error)

	// Get logs by gallery and type
	GetByGalleryAndType(ctx context.Context, galleryID uuid.UUID, activityType models.ActivityType, offset, limit int) ([]models.ActivityLog, int64, error)

	// Delete old logs (cleanup)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
