package notifications

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationsPage struct{}

func New() *NotificationsPage {
	return &NotificationsPage{}
}

func (p *NotificationsPage) ID() string { return "notifications" }

func (p *NotificationsPage) Roles() []models.Role { return nil }

func (p *NotificationsPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewNotificationService(deps.DB))

	router.Get("/", handler.List)
	router.Get("/unread-count", handler.UnreadCount)
	router.Post("/read-all", handler.MarkAllRead)
	router.Patch("/:id/read", handler.MarkRead)
}

func (p *NotificationsPage) RegisterAdminRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewNotificationService(deps.DB))

	router.Post("/notifications", handler.Send)
}
