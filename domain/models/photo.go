package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ReviewStatus string

const (
	ReviewUntouched ReviewStatus = "untouched"
	ReviewSelected  ReviewStatus = "selected"
	ReviewRejected  ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewUntouched, ReviewSelected, ReviewRejected:
		return true
	}
	return false
}

type Photo struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GalleryID uuid.UUID `gorm:"type:uuid;not null;index:idx_photos_gallery_position,priority:1"`
	Position  int       `gorm:"not null;default:0;index:idx_photos_gallery_position,priority:2"` // upload order inside the gallery

	// File info
	FileName     string `gorm:"not null"`
	MimeType     string
	FileSize     int64
	Width        int
	Height       int
	URL          string `gorm:"not null"`
	ThumbnailURL string

	// Triage
	Status       ReviewStatus `gorm:"type:varchar(20);not null;default:'untouched';index"`
	IsHighlight  bool         `gorm:"not null;default:false"`
	QualityScore *float64     // 0-100, nil until scored
	ReviewedAt   *time.Time

	// Image embedding (512 dimensions) for near-duplicate lookup
	Embedding *pgvector.Vector `gorm:"type:vector(512)"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Gallery Gallery `gorm:"foreignKey:GalleryID"`
}

func (Photo) TableName() string {
	return "photos"
}

// GalleryStats are the aggregate triage counts of one gallery.
type GalleryStats struct {
	Total       int64 `json:"total"`
	Selected    int64 `json:"selected"`
	Rejected    int64 `json:"rejected"`
	Untouched   int64 `json:"untouched"`
	Highlighted int64 `json:"highlighted"`
}
