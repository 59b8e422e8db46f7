package onboarding

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *services.OnboardingService
}

func NewHandler(service *services.OnboardingService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	var clientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return pages.Fail(c, fiber.StatusBadRequest, "Invalid client ID")
		}
		clientID = &id
	}

	resp, err := h.service.Get(user, clientID)
	if err != nil {
		return h.fail(c, err, "Failed to fetch onboarding")
	}
	return c.JSON(resp)
}

func (h *Handler) SubmitValue(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	var req dto.OnboardingValueRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	item, err := h.service.SubmitValue(user, &req)
	if err != nil {
		return h.fail(c, err, "Failed to save onboarding item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UploadComplete is called once the upload host has stored an onboarding file.
func (h *Handler) UploadComplete(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	var req dto.UploadCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	item, err := h.service.AttachUpload(user, &req)
	if err != nil {
		return h.fail(c, err, "Failed to record onboarding upload")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *Handler) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		return pages.Fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrItemTypeRequired),
		errors.Is(err, services.ErrItemValueRequired),
		errors.Is(err, services.ErrInvalidUpload),
		errors.Is(err, services.ErrUnknownUploadRoute),
		errors.Is(err, services.ErrFileTypeNotAllowed):
		return pages.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		return pages.Fail(c, fiber.StatusRequestEntityTooLarge, err.Error())
	}
	slog.Error(fallback, "path", c.Path(), "error", err)
	return pages.Fail(c, fiber.StatusInternalServerError, fallback)
}
