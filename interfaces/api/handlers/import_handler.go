package handlers

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/domain/dto"
	"photo-triage/domain/services"
	"photo-triage/pkg/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportFromDrive adds the images of a shared Drive folder to the gallery
func (h *ImportHandler) ImportFromDrive(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	var req dto.DriveImportRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	photos, skipped, err := h.importService.ImportFromDrive(c.UserContext(), p, id, &req)
	if err != nil {
		return serviceError(c, "drive_import", err)
	}
	return utils.CreatedResponse(c, dto.DriveImportResponse{
		Imported: len(photos),
		Skipped:  skipped,
		Photos:   dto.PhotosToTriage(photos),
	})
}
