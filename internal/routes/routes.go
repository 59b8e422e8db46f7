package routes

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/integrations"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups the non-page handlers mounted by Setup.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Webhook    *handlers.WebhookHandler
	Deliveries middleware.DeliveryRecorder
}

const adminPrefix = "admin"

func Setup(
	app *fiber.App,
	cfg *config.Config,
	deps *pages.Deps,
	h Handlers,
	resolver middleware.UserResolver,
	registry *integrations.Registry,
	portalPages []pages.Page,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP. Webhooks have their own.
	api.Use(limiter.New(limiter.Config{
		Next:              isWebhook,
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Webhooks: shared secret per source, no JWT, 300 req/min per IP
	webhookLimit := limiter.New(limiter.Config{
		Max:               300,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return "webhook:" + c.IP() },
	})
	funnel := middleware.WebhookSource(registry, integrations.SourceFunnel, h.Deliveries)
	crm := middleware.WebhookSource(registry, integrations.SourceCRM, h.Deliveries)

	webhooks := api.Group("/webhooks", webhookLimit)
	webhooks.Post("/funnel", funnel, h.Webhook.HandleFunnel)
	webhooks.Post("/crm", crm, h.Webhook.HandleCRM)

	// Paths the upstream automations were first configured with
	legacy := api.Group("/webhook", webhookLimit)
	legacy.Post("/pabbly", funnel, h.Webhook.HandleFunnel)
	legacy.Post("/ghl", crm, h.Webhook.HandleCRM)

	// Auth: stricter limit, 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// JWT middleware is applied per route so it never touches public routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), h.Auth.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), middleware.LoadSession(resolver, cfg), h.Auth.Me)

	// Every page gets its own prefix so one page's role guard never runs
	// in front of another page's routes.
	session := []fiber.Handler{middleware.JWTProtected(cfg), middleware.LoadSession(resolver, cfg)}

	admin := api.Group("/"+adminPrefix, append(session, middleware.RequireRole(models.RoleAdmin))...)
	for _, p := range portalPages {
		if p.ID() == adminPrefix {
			p.RegisterRoutes(admin, deps)
		} else {
			group := api.Group("/"+p.ID(), append(session, middleware.RequireRole(p.Roles()...))...)
			p.RegisterRoutes(group, deps)
		}

		if ap, ok := p.(pages.AdminPage); ok {
			ap.RegisterAdminRoutes(admin, deps)
		}
	}
}

func isWebhook(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/webhook")
}
