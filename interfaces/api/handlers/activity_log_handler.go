package handlers

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/services"
	"photo-triage/pkg/utils"
)

type ActivityLogHandler struct {
	activityLogService services.ActivityLogService
}

func NewActivityLogHandler(activityLogService services.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{activityLogService: activityLogService}
}

// GetActivityLogs returns the gallery's activity, newest first.
// ?activityType= narrows it to one kind.
func (h *ActivityLogHandler) GetActivityLogs(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Unauthorized")
	}
	galleryID, ok := uuidParam(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	page, limit := pageParams(c, 50)
	logs, total, err := h.activityLogService.GetByGallery(c.UserContext(), p, galleryID, models.ActivityType(c.Query("activityType")), page, limit)
	if err != nil {
		return serviceError(c, "get_activity_logs", err)
	}
	return utils.PaginatedResponse(c, dto.ActivityLogsToResponse(logs), total, page, limit)
}
