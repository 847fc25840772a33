package serviceimpl

import (
	"context"

	"github.com/google/uuid"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
)

type ActivityLogServiceImpl struct {
	activityLogRepo repositories.ActivityLogRepository
	galleryRepo     repositories.GalleryRepository
}

func NewActivityLogService(activityLogRepo repositories.ActivityLogRepository, galleryRepo repositories.GalleryRepository) services.ActivityLogService {
	return &ActivityLogServiceImpl{
		activityLogRepo: activityLogRepo,
		galleryRepo:     galleryRepo,
	}
}

func (s *ActivityLogServiceImpl) GetByGallery(ctx context.Context, p services.Principal, galleryID uuid.UUID, activityType models.ActivityType, page, limit int) ([]models.ActivityLog, int64, error) {
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, 0, err
	}
	offset := pageOffset(page, limit)
	if activityType != "" {
		return s.activityLogRepo.GetByGalleryAndType(ctx, galleryID, activityType, offset, limit)
	}
	return s.activityLogRepo.GetByGallery(ctx, galleryID, offset, limit)
}

func (s *ActivityLogServiceImpl) Cleanup(ctx context.Context, days int) (int64, error) {
	return s.activityLogRepo.DeleteOlderThan(ctx, days)
}
