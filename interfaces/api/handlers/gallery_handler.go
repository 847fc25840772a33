package handlers

import (
	"github.com/gofiber/fiber/v2"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/services"
	"photo-triage/pkg/triage"
	"photo-triage/pkg/utils"
)

type GalleryHandler struct {
	galleryService services.GalleryService
	triageService  services.TriageService
}

func NewGalleryHandler(galleryService services.GalleryService, triageService services.TriageService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		triageService:  triageService,
	}
}

// CreateGallery creates a gallery owned by the calling photographer
func (h *GalleryHandler) CreateGallery(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	var req dto.CreateGalleryRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	gallery, err := h.galleryService.CreateGallery(c.UserContext(), p.UserID, &req)
	if err != nil {
		return serviceError(c, "create_gallery", err)
	}
	return utils.CreatedResponse(c, dto.GalleryToResponse(gallery, &models.GalleryStats{}))
}

// ListGalleries returns the photographer's galleries, optionally by vertical
func (h *GalleryHandler) ListGalleries(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	page, limit := pageParams(c, 20)
	galleries, total, err := h.galleryService.ListGalleries(c.UserContext(), p.UserID, models.Vertical(c.Query("vertical")), page, limit)
	if err != nil {
		return serviceError(c, "list_galleries", err)
	}
	return utils.PaginatedResponse(c, dto.GalleriesToResponse(galleries), total, page, limit)
}

// GetGallery returns one gallery with its review counts
func (h *GalleryHandler) GetGallery(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	gallery, err := h.galleryService.GetGallery(c.UserContext(), p, id)
	if err != nil {
		return serviceError(c, "get_gallery", err)
	}
	stats, err := h.triageService.GetStats(c.UserContext(), p, id)
	if err != nil {
		return serviceError(c, "get_gallery", err)
	}
	return utils.SuccessResponse(c, dto.GalleryToResponse(gallery, stats))
}

func (h *GalleryHandler) DeleteGallery(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	if err := h.galleryService.DeleteGallery(c.UserContext(), p, id); err != nil {
		return serviceError(c, "delete_gallery", err)
	}
	return utils.SuccessResponse(c, nil)
}

// GrantAccess trades a client access code for a gallery-scoped token
func (h *GalleryHandler) GrantAccess(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	var req dto.GalleryAccessRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	token, expiresAt, err := h.galleryService.GrantAccess(c.UserContext(), id, req.AccessCode)
	if err != nil {
		return serviceError(c, "grant_access", err)
	}
	return utils.SuccessResponse(c, dto.GalleryAccessResponse{Token: token, GalleryID: id, ExpiresAt: expiresAt})
}

// AddPhotos registers already-uploaded files with the gallery
func (h *GalleryHandler) AddPhotos(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	var req dto.AddPhotosRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	photos, err := h.galleryService.AddPhotos(c.UserContext(), p, id, req.Photos)
	if err != nil {
		return serviceError(c, "add_photos", err)
	}
	return utils.CreatedResponse(c, dto.PhotoListResponse{
		GalleryID: id,
		Filter:    string(triage.FilterAll),
		Photos:    dto.PhotosToTriage(photos),
	})
}
