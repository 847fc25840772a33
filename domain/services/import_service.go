package services

import (
	"context"

	"github.com/google/uuid"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
)

// DriveFile is one image found in a shared Drive folder.
type DriveFile struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	Width        int
	Height       int
	ViewURL      string
	ThumbnailURL string
}

// DriveSource lists the images of a folder shared by link.
type DriveSource interface {
	ListImages(ctx context.Context, folderID, resourceKey string, recursive bool) ([]DriveFile, error)
}

type ImportService interface {
	// ImportFromDrive adds every image of a shared Drive folder that the
	// gallery does not already contain. Re-running it picks up new files only.
	ImportFromDrive(ctx context.Context, p Principal, galleryID uuid.UUID, req *dto.DriveImportRequest) ([]models.Photo, int, error)
}
