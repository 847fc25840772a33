package serviceimpl

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
)

type ImportServiceImpl struct {
	galleryRepo    repositories.GalleryRepository
	photoRepo      repositories.PhotoRepository
	galleryService services.GalleryService
	drive          services.DriveSource
	chunkSize      int
}

// NewImportService wires Drive imports. drive may be nil when no API key
// is configured; imports then fail with ErrDriveNotConfigured.
func NewImportService(
	galleryRepo repositories.GalleryRepository,
	photoRepo repositories.PhotoRepository,
	galleryService services.GalleryService,
	drive services.DriveSource,
	chunkSize int,
) services.ImportService {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &ImportServiceImpl{
		galleryRepo:    galleryRepo,
		photoRepo:      photoRepo,
		galleryService: galleryService,
		drive:          drive,
		chunkSize:      chunkSize,
	}
}

func (s *ImportServiceImpl) ImportFromDrive(ctx context.Context, p services.Principal, galleryID uuid.UUID, req *dto.DriveImportRequest) ([]models.Photo, int, error) {
	if p.Client {
		return nil, 0, services.ErrForbidden
	}
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, 0, err
	}
	if s.drive == nil {
		return nil, 0, services.ErrDriveNotConfigured
	}

	files, err := s.drive.ListImages(ctx, req.FolderID, req.ResourceKey, req.Recursive)
	if err != nil {
		logger.GalleryError("drive_import", "Failed to list Drive folder", err, map[string]interface{}{
			"gallery_id": galleryID.String(),
			"folder_id":  req.FolderID,
		})
		return nil, 0, err
	}

	existing, err := s.photoRepo.ListByGallery(ctx, galleryID, repositories.PhotoFilter{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read gallery photos: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, photo := range existing {
		seen[photo.URL] = struct{}{}
	}

	uploads := make([]dto.PhotoUpload, 0, len(files))
	for _, f := range files {
		if _, dup := seen[f.ViewURL]; dup {
			continue
		}
		seen[f.ViewURL] = struct{}{}
		uploads = append(uploads, dto.PhotoUpload{
			FileName:     f.Name,
			URL:          f.ViewURL,
			ThumbnailURL: f.ThumbnailURL,
			MimeType:     f.MimeType,
			FileSize:     f.Size,
			Width:        f.Width,
			Height:       f.Height,
		})
	}
	skipped := len(files) - len(uploads)

	var added []models.Photo
	for start := 0; start < len(uploads); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(uploads) {
			end = len(uploads)
		}
		photos, err := s.galleryService.AddPhotos(ctx, p, galleryID, uploads[start:end])
		if err != nil {
			return added, skipped, err
		}
		added = append(added, photos...)
	}

	logger.Gallery("drive_import", "Imported photos from Drive", map[string]interface{}{
		"gallery_id": galleryID.String(),
		"folder_id":  req.FolderID,
		"imported":   len(added),
		"skipped":    skipped,
	})
	return added, skipped, nil
}
