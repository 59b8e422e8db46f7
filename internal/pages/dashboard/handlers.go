package dashboard

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *services.DashboardService
}

func NewHandler(service *services.DashboardService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	resp, err := h.service.Get(user)
	if err != nil {
		slog.Error("failed to load dashboard", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}
	return c.JSON(resp)
}
