package assets

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AssetsPage struct{}

func New() *AssetsPage {
	return &AssetsPage{}
}

func (p *AssetsPage) ID() string { return "assets" }

func (p *AssetsPage) Roles() []models.Role { return nil }

func (p *AssetsPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewAssetService(deps.DB, deps.Vault))

	router.Get("/files", handler.Files)
	router.Get("/credentials", handler.Credentials)
	router.Post("/credentials", handler.AddCredential)
}
