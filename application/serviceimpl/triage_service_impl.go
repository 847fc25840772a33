package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/triage"
)

type TriageServiceImpl struct {
	galleryRepo      repositories.GalleryRepository
	photoRepo        repositories.PhotoRepository
	cache            services.StatsCache
	notifier         services.TriageNotifier
	maxBatchSize     int
	similarThreshold float64
}

type TriageOptions struct {
	MaxBatchSize     int
	SimilarThreshold float64
}

// NewTriageService wires the batched write path. cache and notifier may be nil.
func NewTriageService(
	galleryRepo repositories.GalleryRepository,
	photoRepo repositories.PhotoRepository,
	cache services.StatsCache,
	notifier services.TriageNotifier,
	opts TriageOptions,
) services.TriageService {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 500
	}
	return &TriageServiceImpl{
		galleryRepo:      galleryRepo,
		photoRepo:        photoRepo,
		cache:            cache,
		notifier:         notifier,
		maxBatchSize:     opts.MaxBatchSize,
		similarThreshold: opts.SimilarThreshold,
	}
}

func (s *TriageServiceImpl) ListPhotos(ctx context.Context, p services.Principal, galleryID uuid.UUID, filter triage.FilterMode) ([]models.Photo, error) {
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, err
	}

	var f repositories.PhotoFilter
	switch filter {
	case triage.FilterSelected:
		st := models.ReviewSelected
		f.Status = &st
	case triage.FilterRejected:
		st := models.ReviewRejected
		f.Status = &st
	case triage.FilterHighlights:
		on := true
		f.Highlight = &on
	}

	return s.photoRepo.ListByGallery(ctx, galleryID, f)
}

func (s *TriageServiceImpl) UpdateStatus(ctx context.Context, p services.Principal, galleryID uuid.UUID, ids []uuid.UUID, status models.ReviewStatus) (int64, *models.GalleryStats, error) {
	if !status.Valid() {
		return 0, nil, fmt.Errorf("%w: %q", triage.ErrInvalidReviewStatus, status)
	}
	ids, err := s.checkBatch(ctx, p, galleryID, ids)
	if err != nil {
		return 0, nil, err
	}

	activity := newActivity(galleryID, p, models.StatusActivity(status),
		fmt.Sprintf("%d photo(s) marked %s", len(ids), status),
		models.ActivityDetails{Count: len(ids), PhotoIDs: idStrings(ids), Status: string(status)})

	updated, err := s.photoRepo.UpdateStatus(ctx, galleryID, ids, status, activity)
	if err != nil {
		logger.TriageError("update_status", "Batched status write failed", err, map[string]interface{}{
			"gallery_id": galleryID.String(),
			"count":      len(ids),
			"status":     string(status),
		})
		return 0, nil, fmt.Errorf("failed to update status: %w", err)
	}

	stats := s.afterWrite(ctx, galleryID)
	s.publish(services.PhotosUpdatedEvent{
		GalleryID: galleryID,
		Kind:      string(triage.ChangeStatus),
		IDs:       idStrings(ids),
		Status:    string(status),
		Stats:     stats,
		ActorID:   p.ActorID(),
	})

	logger.Triage("update_status", "Batched status write committed", map[string]interface{}{
		"gallery_id": galleryID.String(),
		"count":      len(ids),
		"updated":    updated,
		"status":     string(status),
		"actor":      p.ActorID(),
	})
	return updated, stats, nil
}

func (s *TriageServiceImpl) UpdateHighlight(ctx context.Context, p services.Principal, galleryID uuid.UUID, ids []uuid.UUID, value bool) (int64, *models.GalleryStats, error) {
	ids, err := s.checkBatch(ctx, p, galleryID, ids)
	if err != nil {
		return 0, nil, err
	}

	verb := "removed from"
	if value {
		verb = "added to"
	}
	activity := newActivity(galleryID, p, models.HighlightActivity(value),
		fmt.Sprintf("%d photo(s) %s highlights", len(ids), verb),
		models.ActivityDetails{Count: len(ids), PhotoIDs: idStrings(ids), Highlight: &value})

	updated, err := s.photoRepo.UpdateHighlight(ctx, galleryID, ids, value, activity)
	if err != nil {
		logger.TriageError("update_highlight", "Batched highlight write failed", err, map[string]interface{}{
			"gallery_id": galleryID.String(),
			"count":      len(ids),
		})
		return 0, nil, fmt.Errorf("failed to update highlight: %w", err)
	}

	stats := s.afterWrite(ctx, galleryID)
	s.publish(services.PhotosUpdatedEvent{
		GalleryID: galleryID,
		Kind:      string(triage.ChangeHighlight),
		IDs:       idStrings(ids),
		Highlight: &value,
		Stats:     stats,
		ActorID:   p.ActorID(),
	})

	logger.Triage("update_highlight", "Batched highlight write committed", map[string]interface{}{
		"gallery_id": galleryID.String(),
		"count":      len(ids),
		"updated":    updated,
		"value":      value,
	})
	return updated, stats, nil
}

// checkBatch authorizes p, dedupes ids and verifies every id belongs to
// the gallery. Nothing is written when any id is foreign.
func (s *TriageServiceImpl) checkBatch(ctx context.Context, p services.Principal, galleryID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, err
	}

	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, services.ErrPhotosNotInGallery
	}
	if len(ids) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", services.ErrBatchTooLarge, len(ids), s.maxBatchSize)
	}

	count, err := s.photoRepo.CountInGallery(ctx, galleryID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check photos: %w", err)
	}
	if count != int64(len(ids)) {
		logger.TriageWarn("check_batch", "Batch references photos outside the gallery", map[string]interface{}{
			"gallery_id": galleryID.String(),
			"requested":  len(ids),
			"found":      count,
		})
		return nil, services.ErrPhotosNotInGallery
	}
	return ids, nil
}

// afterWrite drops the cached counts and recomputes them. A failure here
// does not undo the committed write.
func (s *TriageServiceImpl) afterWrite(ctx context.Context, galleryID uuid.UUID) *models.GalleryStats {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, galleryID); err != nil {
			logger.TriageError("invalidate_stats", "Failed to invalidate stats cache", err, map[string]interface{}{
				"gallery_id": galleryID.String(),
			})
		}
	}
	stats, err := s.RefreshStats(ctx, galleryID)
	if err != nil {
		logger.TriageError("refresh_stats", "Failed to recompute stats", err, map[string]interface{}{
			"gallery_id": galleryID.String(),
		})
		return nil
	}
	return stats
}

func (s *TriageServiceImpl) publish(event services.PhotosUpdatedEvent) {
	if s.notifier != nil {
		s.notifier.PhotosUpdated(event)
	}
}

func (s *TriageServiceImpl) GetStats(ctx context.Context, p services.Principal, galleryID uuid.UUID) (*models.GalleryStats, error) {
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx, galleryID); ok {
			return stats, nil
		}
	}
	return s.RefreshStats(ctx, galleryID)
}

func (s *TriageServiceImpl) RefreshStats(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, error) {
	stats, err := s.photoRepo.GetStats(ctx, galleryID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, galleryID, stats); err != nil {
			logger.TriageError("cache_stats", "Failed to cache stats", err, map[string]interface{}{
				"gallery_id": galleryID.String(),
			})
		}
	}
	return stats, nil
}

func (s *TriageServiceImpl) FindSimilar(ctx context.Context, p services.Principal, galleryID, photoID uuid.UUID, limit int) ([]repositories.SimilarPhoto, error) {
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrPhotoNotFound
		}
		return nil, err
	}
	if photo.GalleryID != galleryID {
		return nil, services.ErrPhotoNotFound
	}

	return s.photoRepo.FindSimilar(ctx, photo, limit, s.similarThreshold)
}

func newActivity(galleryID uuid.UUID, p services.Principal, kind models.ActivityType, message string, details models.ActivityDetails) *models.ActivityLog {
	raw, _ := json.Marshal(details)
	return &models.ActivityLog{
		GalleryID:    galleryID,
		ActorID:      p.ActorID(),
		ActivityType: kind,
		Message:      message,
		Details:      string(raw),
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
