package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
)

type ActivityLogRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) repositories.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{db: db}
}

func (r *ActivityLogRepositoryImpl) Create(ctx context.Context, log *models.ActivityLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *ActivityLogRepositoryImpl) GetByGallery(ctx context.Context, galleryID uuid.UUID, offset, limit int) ([]models.ActivityLog, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Where("gallery_id = ?", galleryID), offset, limit)
}

func (r *ActivityLogRepositoryImpl) GetByGalleryAndType(ctx context.Context, galleryID uuid.UUID, activityType models.ActivityType, offset, limit int) ([]models.ActivityLog, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Where("gallery_id = ?", galleryID).
		Where("activity_type = ?", activityType), offset, limit)
}

func (r *ActivityLogRepositoryImpl) page(query *gorm.DB, offset, limit int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error

	return logs, total, err
}

// retentionBatch bounds each retention DELETE so a large backlog does not
// hold row locks that triage writes are waiting on.
const retentionBatch = 5000

func (r *ActivityLogRepositoryImpl) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	var deleted int64
	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		result := r.db.WithContext(ctx).Exec(
			`DELETE FROM activity_logs WHERE id IN (
				SELECT id FROM activity_logs WHERE created_at < ? LIMIT ?)`,
			threshold, retentionBatch)
		if result.Error != nil {
			return deleted, result.Error
		}
		deleted += result.RowsAffected
		if result.RowsAffected < retentionBatch {
			return deleted, nil
		}
	}
}
