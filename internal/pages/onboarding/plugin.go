package onboarding

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type OnboardingPage struct{}

func New() *OnboardingPage {
	return &OnboardingPage{}
}

func (p *OnboardingPage) ID() string { return "onboarding" }

func (p *OnboardingPage) Roles() []models.Role { return nil }

func (p *OnboardingPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewOnboardingService(deps.DB))

	router.Get("/", handler.Get)
	router.Post("/items", handler.SubmitValue)
	router.Post("/uploads", handler.UploadComplete)
}
