package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/triage"
	"photo-triage/pkg/utils"
)

// serviceError maps a service error onto an HTTP reply. Anything not
// recognised is logged and reported as a 500 without details.
func serviceError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrGalleryNotFound),
		errors.Is(err, services.ErrPhotoNotFound),
		errors.Is(err, services.ErrPhotosNotInGallery),
		errors.Is(err, services.ErrDriveFolderAccess):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFoundResponse(c, "Not found")
	case errors.Is(err, services.ErrForbidden):
		return utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidAccessCode),
		errors.Is(err, services.ErrInvalidCredentials):
		return utils.UnauthorizedResponse(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrDriveNotConfigured):
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrBatchTooLarge):
		return utils.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, triage.ErrInvalidReviewStatus),
		errors.Is(err, triage.ErrInvalidFilter):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	logger.Error(logger.CategoryAPI, action, "Request failed", err, map[string]interface{}{
		"path":   c.Path(),
		"method": c.Method(),
	})
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}

// principal turns the token in c.Locals into a services.Principal.
func principal(c *fiber.Ctx) (services.Principal, error) {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return services.Principal{}, err
	}
	return services.Principal{
		UserID:    user.ID,
		GalleryID: user.GalleryID,
		Client:    user.IsClient(),
	}, nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// parseBody decodes and validates the request body into req. It writes
// the 400 reply itself and returns false when the body is unusable.
func parseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return false, utils.ValidationErrorResponse(c, fields)
	}
	return true, nil
}

func pageParams(c *fiber.Ctx, defaultLimit int) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
