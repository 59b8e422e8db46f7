package messages

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MessagesPage struct{}

func New() *MessagesPage {
	return &MessagesPage{}
}

func (p *MessagesPage) ID() string { return "messages" }

func (p *MessagesPage) Roles() []models.Role { return nil }

func (p *MessagesPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewMessageService(deps.DB))

	router.Get("/", handler.Threads)
	router.Get("/:projectId", handler.Thread)
	router.Post("/:projectId", handler.Send)
}
