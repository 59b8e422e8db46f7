package uploads

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *services.AssetService
}

func NewHandler(service *services.AssetService) *Handler {
	return &Handler{service: service}
}

// Complete records a file once the upload host reports it stored.
func (h *Handler) Complete(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	var req dto.UploadCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	file, err := h.service.RecordUpload(user, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUpload),
			errors.Is(err, services.ErrUnknownUploadRoute),
			errors.Is(err, services.ErrFileTypeNotAllowed):
			return pages.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrFileTooLarge):
			return pages.Fail(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, services.ErrProjectNotFound):
			return pages.Fail(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("failed to record upload", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to record upload")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uploadedBy": user.ID,
		"file":       file,
	})
}
