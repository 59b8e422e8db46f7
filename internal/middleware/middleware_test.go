package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/integrations"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func withToken(sub, email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sub != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": sub, "email": email}})
		}
		return c.Next()
	}
}

type stubResolver struct {
	user *models.User
	err  error
}

func (s stubResolver) ResolveUser(subject, email, name string) (*models.User, error) {
	return s.user, s.err
}

func ok(c *fiber.Ctx) error {
	user, err := session.GetUser(c)
	if err != nil {
		return c.SendString("anonymous")
	}
	return c.SendString(string(user.Role))
}

func TestRequireRole(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, Email: "a@x.io"}
	client := &models.User{ID: uuid.New(), Role: models.RoleClient, Email: "c@x.io"}

	tests := []struct {
		name     string
		resolver stubResolver
		signedIn bool
		want     int
	}{
		{"signed out", stubResolver{}, false, fiber.StatusUnauthorized},
		{"admin allowed", stubResolver{user: admin}, true, fiber.StatusOK},
		{"client forbidden", stubResolver{user: client}, true, fiber.StatusForbidden},
		{"store unavailable", stubResolver{err: errors.New("connection refused")}, true, fiber.StatusServiceUnavailable},
		{"unknown user", stubResolver{err: services.ErrUserNotFound}, true, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			sub := ""
			if tt.signedIn {
				sub = uuid.NewString()
			}
			chain := []fiber.Handler{withToken(sub, "")}
			if tt.signedIn {
				chain = append(chain, LoadSession(tt.resolver, &config.Config{}))
			}
			chain = append(chain, RequireRole(models.RoleAdmin), ok)
			app.Get("/admin", chain...)

			resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestAdminEmailOverride(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleTeamMember, Email: "Boss@Agency.io"}
	cfg := &config.Config{AdminEmails: "ops@agency.io, boss@agency.io"}

	app := fiber.New()
	app.Get("/admin",
		withToken(user.ID.String(), user.Email),
		LoadSession(stubResolver{user: user}, cfg),
		RequireRole(models.RoleAdmin),
		ok,
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWebhookSource(t *testing.T) {
	registry := integrations.NewRegistry()
	disabled := false
	registry.Register(integrations.Source{Name: "crm", Secret: "s3cret"})
	registry.Register(integrations.Source{Name: "funnel", Enabled: &disabled})

	recorder := &deliveryLog{}
	app := fiber.New()
	app.Post("/crm", WebhookSource(registry, "crm", recorder), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/funnel", WebhookSource(registry, "funnel", recorder), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/other", WebhookSource(registry, "other", recorder), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	tests := []struct {
		name     string
		path     string
		secret   string
		want     int
		recorded bool
	}{
		{"correct secret", "/crm", "s3cret", fiber.StatusOK, false},
		{"wrong secret", "/crm", "nope", fiber.StatusUnauthorized, true},
		{"missing secret", "/crm", "", fiber.StatusUnauthorized, true},
		{"disabled source", "/funnel", "", fiber.StatusNotFound, true},
		{"unconfigured source is open", "/other", "", fiber.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder.deliveries = nil
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(`{"event":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.secret != "" {
				req.Header.Set(integrations.DefaultSecretHeader, tt.secret)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
			if !tt.recorded {
				if len(recorder.deliveries) != 0 {
					t.Errorf("expected no recorded delivery, got %+v", recorder.deliveries)
				}
				return
			}
			if len(recorder.deliveries) != 1 {
				t.Fatalf("expected 1 recorded delivery, got %d", len(recorder.deliveries))
			}
			d := recorder.deliveries[0]
			if d.Status != models.DeliveryRejected || d.ResponseCode != tt.want || string(d.Payload) != `{"event":"x"}` {
				t.Errorf("unexpected delivery %+v", d)
			}
		})
	}
}

type deliveryLog struct {
	deliveries []services.Delivery
}

func (l *deliveryLog) Record(_ context.Context, d services.Delivery) {
	l.deliveries = append(l.deliveries, d)
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "https://portal.agency.io"}), SecurityHeaders())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://portal.agency.io")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://portal.agency.io" {
		t.Errorf("unexpected allow origin %q", got)
	}
	if got := resp.Header.Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Retry-After") {
		t.Errorf("expected Retry-After to be exposed, got %q", got)
	}
	if resp.Header.Get("X-Frame-Options") != "DENY" || resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("missing security headers: %v", resp.Header)
	}
}
