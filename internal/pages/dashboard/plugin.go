package dashboard

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardPage struct{}

func New() *DashboardPage {
	return &DashboardPage{}
}

func (p *DashboardPage) ID() string { return "dashboard" }

func (p *DashboardPage) Roles() []models.Role { return nil }

func (p *DashboardPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewDashboardService(deps.DB))

	router.Get("/", handler.Get)
}
