package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
)

type PhotoRepositoryImpl struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) repositories.PhotoRepository {
	return &PhotoRepositoryImpl{db: db}
}

func (r *PhotoRepositoryImpl) CreateBatch(ctx context.Context, photos []*models.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(photos, 100).Error
}

func (r *PhotoRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepositoryImpl) NextPosition(ctx context.Context, galleryID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("gallery_id = ?", galleryID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

func (r *PhotoRepositoryImpl) ListByGallery(ctx context.Context, galleryID uuid.UUID, filter repositories.PhotoFilter) ([]models.Photo, error) {
	var photos []models.Photo

	query := r.db.WithContext(ctx).
		Omit("embedding").
		Where("gallery_id = ?", galleryID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Highlight != nil {
		query = query.Where("is_highlight = ?", *filter.Highlight)
	}

	err := query.Order("position ASC, created_at ASC").Find(&photos).Error
	return photos, err
}

func (r *PhotoRepositoryImpl) CountInGallery(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("gallery_id = ? AND id IN ?", galleryID, ids).
		Count(&count).Error
	return count, err
}

func (r *PhotoRepositoryImpl) UpdateStatus(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, status models.ReviewStatus, activity *models.ActivityLog) (int64, error) {
	now := time.Now()
	reviewedAt := &now
	if status == models.ReviewUntouched {
		reviewedAt = nil
	}
	return r.batchUpdate(ctx, galleryID, ids, map[string]interface{}{
		"status":      status,
		"reviewed_at": reviewedAt,
		"updated_at":  now,
	}, activity)
}

func (r *PhotoRepositoryImpl) UpdateHighlight(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, value bool, activity *models.ActivityLog) (int64, error) {
	return r.batchUpdate(ctx, galleryID, ids, map[string]interface{}{
		"is_highlight": value,
		"updated_at":   time.Now(),
	}, activity)
}

func (r *PhotoRepositoryImpl) batchUpdate(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, updates map[string]interface{}, activity *models.ActivityLog) (int64, error) {
	var affected int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Photo{}).
			Where("gallery_id = ? AND id IN ?", galleryID, ids).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected

		if activity != nil {
			if activity.ID == uuid.Nil {
				activity.ID = uuid.New()
			}
			if activity.CreatedAt.IsZero() {
				activity.CreatedAt = time.Now()
			}
			if err := tx.Create(activity).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return affected, err
}

func (r *PhotoRepositoryImpl) GetStats(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, error) {
	var rows []struct {
		Status      models.ReviewStatus
		Count       int64
		Highlighted int64
	}
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Select("status, COUNT(*) AS count, COUNT(*) FILTER (WHERE is_highlight) AS highlighted").
		Where("gallery_id = ?", galleryID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.GalleryStats{}
	for _, row := range rows {
		stats.Total += row.Count
		stats.Highlighted += row.Highlighted
		switch row.Status {
		case models.ReviewSelected:
			stats.Selected += row.Count
		case models.ReviewRejected:
			stats.Rejected += row.Count
		default:
			stats.Untouched += row.Count
		}
	}
	return stats, nil
}

// FindSimilar looks up photos in the same gallery whose embedding is
// close to photo's. pgvector's <=> is cosine distance, so similarity is
// 1 - distance.
func (r *PhotoRepositoryImpl) FindSimilar(ctx context.Context, photo *models.Photo, limit int, threshold float64) ([]repositories.SimilarPhoto, error) {
	if photo.Embedding == nil {
		return nil, nil
	}
	embedding := *photo.Embedding

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id, p.gallery_id, p.position, p.file_name, p.url, p.thumbnail_url,
			p.status, p.is_highlight, p.quality_score,
			1 - (p.embedding <=> ?) AS similarity
		FROM photos p
		WHERE p.gallery_id = ?
		AND p.id <> ?
		AND p.embedding IS NOT NULL
		AND 1 - (p.embedding <=> ?) >= ?
		ORDER BY p.embedding <=> ?
		LIMIT ?
	`, embedding, photo.GalleryID, photo.ID, embedding, threshold, embedding, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []repositories.SimilarPhoto
	for rows.Next() {
		var result repositories.SimilarPhoto
		p := &result.Photo
		if err := rows.Scan(
			&p.ID, &p.GalleryID, &p.Position, &p.FileName, &p.URL, &p.ThumbnailURL,
			&p.Status, &p.IsHighlight, &p.QualityScore,
			&result.Similarity,
		); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
