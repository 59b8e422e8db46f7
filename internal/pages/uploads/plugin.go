package uploads

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadsPage struct{}

func New() *UploadsPage {
	return &UploadsPage{}
}

func (p *UploadsPage) ID() string { return "uploads" }

func (p *UploadsPage) Roles() []models.Role { return nil }

func (p *UploadsPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewAssetService(deps.DB, deps.Vault))

	router.Post("/complete", handler.Complete)
}
