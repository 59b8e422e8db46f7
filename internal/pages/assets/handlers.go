package assets

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

func (h *Handler) Files(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	files, err := h.service.Files(user)
	if err != nil {
		slog.Error("failed to list files", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch files")
	}
	return c.JSON(fiber.Map{"files": files})
}

func (h *Handler) Credentials(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	creds, err := h.service.Credentials(user)
	if err != nil {
		slog.Error("failed to list credentials", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch credentials")
	}
	return c.JSON(fiber.Map{"credentials": creds})
}

func (h *Handler) AddCredential(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	var req dto.CreateCredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	cred, err := h.service.AddCredential(user, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNameRequired):
			return pages.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrProjectNotFound):
			return pages.Fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			return pages.Fail(c, fiber.StatusForbidden, "Only admins can add credentials without a project")
		}
		slog.Error("failed to add credential", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to add credential")
	}
	return c.Status(fiber.StatusCreated).JSON(cred)
}
