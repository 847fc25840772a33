package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"photo-triage/domain/models"
)

// ActivityLogResponse represents an activity log entry
type ActivityLogResponse struct {
	ID           uuid.UUID `json:"id"`
	GalleryID    uuid.UUID `json:"galleryId"`
	ActorID      string    `json:"actorId"`
	ActivityType string    `json:"activityType"`
	Message      string    `json:"message"`
	Details      any       `json:"details,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ActivityLogToResponse converts a model to response DTO
func ActivityLogToResponse(log *models.ActivityLog) *ActivityLogResponse {
	resp := &ActivityLogResponse{
		ID:           log.ID,
		GalleryID:    log.GalleryID,
		ActorID:      log.ActorID,
		ActivityType: string(log.ActivityType),
		Message:      log.Message,
		CreatedAt:    log.CreatedAt,
	}

	if log.Details != "" {
		var details map[string]interface{}
		if err := json.Unmarshal([]byte(log.Details), &details); err == nil {
			resp.Details = details
		}
	}

	return resp
}

func ActivityLogsToResponse(logs []models.ActivityLog) []*ActivityLogResponse {
	result := make([]*ActivityLogResponse, len(logs))
	for i := range logs {
		result[i] = ActivityLogToResponse(&logs[i])
	}
	return result
}
