package notifications

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *services.NotificationService
}

func NewHandler(service *services.NotificationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	limit, offset := pages.Pagination(c)
	unreadOnly := c.QueryBool("unread", false)

	notifications, total, err := h.service.List(user, unreadOnly, limit, offset)
	if err != nil {
		slog.Error("failed to list notifications", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch notifications")
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

func (h *Handler) UnreadCount(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	count, err := h.service.UnreadCount(user)
	if err != nil {
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to count notifications")
	}
	return c.JSON(fiber.Map{"unread": count})
}

func (h *Handler) MarkRead(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.service.MarkRead(user, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return pages.Fail(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("failed to mark notification read", "notification_id", id, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to update notification")
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	updated, err := h.service.MarkAllRead(user)
	if err != nil {
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to update notifications")
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// Send is the admin-only manual notification.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req dto.SendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	n, err := h.service.Send(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNotificationType),
			errors.Is(err, services.ErrTitleRequired),
			errors.Is(err, services.ErrInvalidMetadata):
			return pages.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return pages.Fail(c, fiber.StatusNotFound, "Recipient not found")
		}
		slog.Error("failed to send notification", "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to send notification")
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}
