package messages

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *services.MessageService
}

func NewHandler(service *services.MessageService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Threads(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	threads, err := h.service.Threads(user)
	if err != nil {
		slog.Error("failed to list threads", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch messages")
	}
	return c.JSON(fiber.Map{"threads": threads})
}

func (h *Handler) Thread(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	projectID, ok := pages.ParamID(c, "projectId")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	messages, err := h.service.Thread(user, projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return pages.Fail(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("failed to load thread", "project_id", projectID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch messages")
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *Handler) Send(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	projectID, ok := pages.ParamID(c, "projectId")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	message, err := h.service.Send(user, projectID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			return pages.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrProjectNotFound):
			return pages.Fail(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("failed to send message", "project_id", projectID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to send message")
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
