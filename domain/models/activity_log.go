package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	// Gallery activities
	ActivityGalleryCreated ActivityType = "gallery_created"
	ActivityGalleryOpened  ActivityType = "gallery_opened" // client used the access code
	ActivityPhotosAdded    ActivityType = "photos_added"

	// Triage activities
	ActivityPhotosSelected    ActivityType = "photos_selected"
	ActivityPhotosRejected    ActivityType = "photos_rejected"
	ActivityPhotosReset       ActivityType = "photos_reset"
	ActivityHighlightsAdded   ActivityType = "highlights_added"
	ActivityHighlightsRemoved ActivityType = "highlights_removed"
)

// StatusActivity maps a batched review write to its activity type.
func StatusActivity(status ReviewStatus) ActivityType {
	switch status {
	case ReviewSelected:
		return ActivityPhotosSelected
	case ReviewRejected:
		return ActivityPhotosRejected
	default:
		return ActivityPhotosReset
	}
}

func HighlightActivity(value bool) ActivityType {
	if value {
		return ActivityHighlightsAdded
	}
	return ActivityHighlightsRemoved
}

// ActivityLog is the triage audit trail of a gallery.
type ActivityLog struct {
	ID           uuid.UUID    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GalleryID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	ActorID      string       `gorm:"type:varchar(64);index"` // user id, or "client"
	ActivityType ActivityType `gorm:"type:varchar(50);not null;index"`
	Message      string       `gorm:"type:text"`
	Details      string       `gorm:"type:jsonb"`
	CreatedAt    time.Time    `gorm:"index"`

	// Relations
	Gallery Gallery `gorm:"foreignKey:GalleryID"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// ActivityDetails is serialized into ActivityLog.Details.
type ActivityDetails struct {
	Count     int      `json:"count,omitempty"`
	PhotoIDs  []string `json:"photo_ids,omitempty"`
	Status    string   `json:"status,omitempty"`
	Highlight *bool    `json:"highlight,omitempty"`
	FileNames []string `json:"file_names,omitempty"`
}
