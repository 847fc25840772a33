package services

import (
	"context"

	"github.com/google/uuid"
	"photo-triage/domain/models"
)

type ActivityLogService interface {
	// GetByGallery returns activity logs for a gallery with pagination
	GetByGallery(ctx context.Context, p Principal, galleryID uuid.UUID, activityType models.ActivityType, page, limit int) ([]models.ActivityLog, int64, error)

	// Cleanup deletes old activity logs
	Cleanup(ctx context.Context, days int) (int64, error)
}
