package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/integrations"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/logging"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/admin"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/assets"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/dashboard"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/messages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/notifications"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/onboarding"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/projects"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages/uploads"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/routes"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/schema"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/vault"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	secrets, err := vault.New(cfg.VaultPassphrase, cfg.VaultSalt)
	if err != nil {
		return fmt.Errorf("credential vault: %w (set VAULT_PASSPHRASE)", err)
	}

	// Webhook integrations, reloaded on change
	registry, err := integrations.LoadFromFile(cfg.IntegrationsConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load integrations from %s: %w", cfg.IntegrationsConfigPath, err)
	}
	slog.Info("integrations loaded", "sources", registry.Names())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := integrations.Watch(ctx, registry, cfg.IntegrationsConfigPath); err != nil {
		slog.Warn("integrations hot reload disabled", "error", err)
	}

	if err := connect(); err != nil {
		return err
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.StdoutHandler(cfg.LogLevel),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := newApp(cfg, database.DB, registry, secrets)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)
	closeDB()

	slog.Info("server stopped")
	return nil
}

// portalPages lists every page mounted under /api.
func portalPages() []pages.Page {
	return []pages.Page{
		dashboard.New(),
		projects.New(),
		messages.New(),
		notifications.New(),
		onboarding.New(),
		assets.New(),
		uploads.New(),
		admin.New(),
	}
}

// newApp builds the Fiber app with middleware and every route mounted.
func newApp(cfg *config.Config, db *gorm.DB, registry *integrations.Registry, secrets *vault.Vault) *fiber.App {
	authService := services.NewAuthService(db, cfg)
	deliveries := services.NewDeliveryService(db)

	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Health: handlers.NewHealthHandler(db, registry),
		Webhook: handlers.NewWebhookHandler(
			services.NewProvisioningService(db),
			services.NewEventService(db),
			deliveries,
			schema.MustNew(),
		),
		Deliveries: deliveries,
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		Output: os.Stdout,
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	deps := &pages.Deps{DB: db, Cfg: cfg, Vault: secrets}
	routes.Setup(app, cfg, deps, h, authService, registry, portalPages())

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", c.Locals("requestid"), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
