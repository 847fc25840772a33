package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/services"
	"photo-triage/pkg/triage"
	"photo-triage/pkg/utils"
)

// TriageHandler serves the review endpoints. Every write is one batched
// request carrying all the ids the reviewer acted on.
type TriageHandler struct {
	triageService services.TriageService
}

func NewTriageHandler(triageService services.TriageService) *TriageHandler {
	return &TriageHandler{triageService: triageService}
}

// ListPhotos returns the gallery's photos in order. ?filter= narrows the
// list to selected, rejected or highlights.
func (h *TriageHandler) ListPhotos(c *fiber.Ctx) error {
	p, id, ok, err := h.scope(c)
	if !ok {
		return err
	}

	filter, err := triage.ParseFilterMode(c.Query("filter", string(triage.FilterAll)))
	if err != nil {
		return serviceError(c, "list_photos", err)
	}

	photos, err := h.triageService.ListPhotos(c.UserContext(), p, id, filter)
	if err != nil {
		return serviceError(c, "list_photos", err)
	}
	return utils.SuccessResponse(c, dto.PhotoListResponse{
		GalleryID: id,
		Filter:    string(filter),
		Photos:    dto.PhotosToTriage(photos),
	})
}

// UpdateStatus applies one review status to a batch of photos
func (h *TriageHandler) UpdateStatus(c *fiber.Ctx) error {
	p, id, ok, err := h.scope(c)
	if !ok {
		return err
	}

	var req dto.UpdateStatusRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	ids, err := parseIDs(req.IDs)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid photo ID")
	}

	updated, stats, err := h.triageService.UpdateStatus(c.UserContext(), p, id, ids, models.ReviewStatus(req.Status))
	if err != nil {
		return serviceError(c, "update_status", err)
	}
	return utils.SuccessResponse(c, dto.BatchUpdateResponse{Updated: updated, Stats: dto.StatsToResponse(stats)})
}

// UpdateHighlight sets or clears the highlight flag on a batch of photos
func (h *TriageHandler) UpdateHighlight(c *fiber.Ctx) error {
	p, id, ok, err := h.scope(c)
	if !ok {
		return err
	}

	var req dto.UpdateHighlightRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	ids, err := parseIDs(req.IDs)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid photo ID")
	}

	updated, stats, err := h.triageService.UpdateHighlight(c.UserContext(), p, id, ids, *req.Value)
	if err != nil {
		return serviceError(c, "update_highlight", err)
	}
	return utils.SuccessResponse(c, dto.BatchUpdateResponse{Updated: updated, Stats: dto.StatsToResponse(stats)})
}

func (h *TriageHandler) GetStats(c *fiber.Ctx) error {
	p, id, ok, err := h.scope(c)
	if !ok {
		return err
	}

	stats, err := h.triageService.GetStats(c.UserContext(), p, id)
	if err != nil {
		return serviceError(c, "get_stats", err)
	}
	return utils.SuccessResponse(c, dto.StatsToResponse(stats))
}

// FindSimilar lists near-duplicates of a photo within the same gallery
func (h *TriageHandler) FindSimilar(c *fiber.Ctx) error {
	p, id, ok, err := h.scope(c)
	if !ok {
		return err
	}
	photoID, valid := uuidParam(c, "photoId")
	if !valid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid photo ID")
	}

	similar, err := h.triageService.FindSimilar(c.UserContext(), p, id, photoID, c.QueryInt("limit", 10))
	if err != nil {
		return serviceError(c, "find_similar", err)
	}

	out := make([]dto.SimilarPhotoResponse, len(similar))
	for i := range similar {
		out[i] = dto.SimilarPhotoResponse{
			Photo:      dto.PhotoToTriage(&similar[i].Photo),
			Similarity: similar[i].Similarity,
		}
	}
	return utils.SuccessResponse(c, out)
}

// scope reads the caller and the :id gallery param. When ok is false the
// reply has already been written and err is what the handler returns.
func (h *TriageHandler) scope(c *fiber.Ctx) (services.Principal, uuid.UUID, bool, error) {
	p, err := principal(c)
	if err != nil {
		return p, uuid.Nil, false, utils.UnauthorizedResponse(c, "Not authenticated")
	}
	id, valid := uuidParam(c, "id")
	if !valid {
		return p, uuid.Nil, false, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}
	return p, id, true, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
