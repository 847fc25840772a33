package dto

import (
	"time"

	"github.com/google/uuid"

	"photo-triage/domain/models"
	"photo-triage/pkg/triage"
)

// PhotoUpload registers one already-uploaded file with a gallery.
type PhotoUpload struct {
	FileName     string    `json:"filename" validate:"required,max=255"`
	URL          string    `json:"url" validate:"required,url"`
	ThumbnailURL string    `json:"thumbnailUrl" validate:"omitempty,url"`
	MimeType     string    `json:"mimeType"`
	FileSize     int64     `json:"fileSize" validate:"gte=0"`
	Width        int       `json:"width" validate:"gte=0"`
	Height       int       `json:"height" validate:"gte=0"`
	QualityScore *float64  `json:"qualityScore" validate:"omitempty,gte=0,lte=100"`
	Embedding    []float32 `json:"embedding" validate:"omitempty,len=512"`
}

type AddPhotosRequest struct {
	Photos []PhotoUpload `json:"photos" validate:"required,min=1,max=500,dive"`
}

// UpdateStatusRequest is one batched review status write.
type UpdateStatusRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Status string   `json:"status" validate:"required,oneof=untouched selected rejected"`
}

// UpdateHighlightRequest is one batched highlight write.
type UpdateHighlightRequest struct {
	IDs   []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Value *bool    `json:"value" validate:"required"`
}

// BatchUpdateResponse reports a committed batch and the fresh counts.
type BatchUpdateResponse struct {
	Updated int64         `json:"updated"`
	Stats   StatsResponse `json:"stats"`
}

type StatsResponse struct {
	Total       int64 `json:"total"`
	Selected    int64 `json:"selected"`
	Rejected    int64 `json:"rejected"`
	Untouched   int64 `json:"untouched"`
	Highlighted int64 `json:"highlighted"`
}

type PhotoListResponse struct {
	GalleryID uuid.UUID      `json:"galleryId"`
	Filter    string         `json:"filter"`
	Photos    []triage.Photo `json:"photos"`
}

type SimilarPhotoResponse struct {
	Photo      triage.Photo `json:"photo"`
	Similarity float64      `json:"similarity"`
}

// PhotoToTriage converts a stored photo to the wire shape shared with the
// triage client.
func PhotoToTriage(p *models.Photo) triage.Photo {
	status := triage.StatusUntouched
	switch p.Status {
	case models.ReviewSelected:
		status = triage.StatusSelected
	case models.ReviewRejected:
		status = triage.StatusRejected
	}
	return triage.Photo{
		ID:           p.ID.String(),
		Filename:     p.FileName,
		URL:          p.URL,
		ThumbnailURL: p.ThumbnailURL,
		Status:       status,
		IsHighlight:  p.IsHighlight,
		QualityScore: p.QualityScore,
	}
}

func PhotosToTriage(photos []models.Photo) []triage.Photo {
	out := make([]triage.Photo, len(photos))
	for i := range photos {
		out[i] = PhotoToTriage(&photos[i])
	}
	return out
}

func StatsToResponse(s *models.GalleryStats) StatsResponse {
	if s == nil {
		return StatsResponse{}
	}
	return StatsResponse{
		Total:       s.Total,
		Selected:    s.Selected,
		Rejected:    s.Rejected,
		Untouched:   s.Untouched,
		Highlighted: s.Highlighted,
	}
}

// PhotoUploadToModel builds the row for an upload at position.
func PhotoUploadToModel(galleryID uuid.UUID, position int, u *PhotoUpload) *models.Photo {
	now := time.Now()
	return &models.Photo{
		ID:           uuid.New(),
		GalleryID:    galleryID,
		Position:     position,
		FileName:     u.FileName,
		MimeType:     u.MimeType,
		FileSize:     u.FileSize,
		Width:        u.Width,
		Height:       u.Height,
		URL:          u.URL,
		ThumbnailURL: u.ThumbnailURL,
		Status:       models.ReviewUntouched,
		QualityScore: u.QualityScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DriveImportRequest names a Drive folder shared with "anyone with the
// link". ResourceKey is only needed for folders shared before 2021.
type DriveImportRequest struct {
	FolderID    string `json:"folderId" validate:"required,max=128"`
	ResourceKey string `json:"resourceKey" validate:"omitempty,max=128"`
	Recursive   bool   `json:"recursive"`
}

type DriveImportResponse struct {
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Photos   []triage.Photo `json:"photos"`
}
