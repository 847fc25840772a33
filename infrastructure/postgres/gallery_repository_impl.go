package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
)

type GalleryRepositoryImpl struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) repositories.GalleryRepository {
	return &GalleryRepositoryImpl{db: db}
}

func (r *GalleryRepositoryImpl) Create(ctx context.Context, gallery *models.Gallery) error {
	return r.db.WithContext(ctx).Create(gallery).Error
}

func (r *GalleryRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&gallery).Error
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *GalleryRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, vertical models.Vertical, offset, limit int) ([]models.Gallery, int64, error) {
	var galleries []models.Gallery
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Gallery{}).Where("owner_id = ?", ownerID)
	if vertical != "" {
		query = query.Where("vertical = ?", vertical)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&galleries).Error

	return galleries, total, err
}

func (r *GalleryRepositoryImpl) ListRecentlyActive(ctx context.Context, hours int, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Distinct("gallery_id").
		Where("created_at >= ?", since).
		Limit(limit).
		Pluck("gallery_id", &ids).Error
	return ids, err
}

func (r *GalleryRepositoryImpl) Update(ctx context.Context, gallery *models.Gallery) error {
	return r.db.WithContext(ctx).Where("id = ?", gallery.ID).Updates(gallery).Error
}

// Delete removes the gallery together with its photos and activity.
func (r *GalleryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Gallery{}).Error
	})
}
