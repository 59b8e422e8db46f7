package admin

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminPage is the client console: clients, PM assignment, the team
// roster and the webhook audit log.
type AdminPage struct{}

func New() *AdminPage {
	return &AdminPage{}
}

func (p *AdminPage) ID() string { return "admin" }

func (p *AdminPage) Roles() []models.Role { return []models.Role{models.RoleAdmin} }

func (p *AdminPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(
		services.NewClientService(deps.DB),
		services.NewDeliveryService(deps.DB),
	)

	router.Get("/clients", handler.ListClients)
	router.Post("/clients", handler.CreateClient)
	router.Get("/clients/:id", handler.GetClient)
	router.Put("/clients/:id/pm", handler.AssignPM)
	router.Get("/team", handler.Team)
	router.Get("/webhooks/deliveries", handler.Deliveries)
}
