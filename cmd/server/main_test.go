package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/integrations"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/vault"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const testSecret = "test-jwt-secret"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{JWTSecret: testSecret, CORSOrigins: "*", AdminEmails: "owner@agency.io"}
	secrets, err := vault.New("passphrase", "salt")
	if err != nil {
		t.Fatalf("vault: %v", err)
	}
	registry := integrations.NewRegistry()
	registry.Register(integrations.Source{Name: integrations.SourceCRM, Secret: "crm-secret"})
	return &testEnv{app: newApp(cfg, db, registry, secrets), db: db}
}

func (e *testEnv) user(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@agency.io", Role: role}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func token(t *testing.T, u *models.User) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (e *testEnv) do(t *testing.T, method, path string, u *models.User, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, u))
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, raw
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, "GET", "/api/health", nil, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(raw), `"db":"ok"`) {
		t.Errorf("unexpected body %s", raw)
	}
}

func TestPageGuards(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", models.RoleAdmin)
	pm := env.user(t, "pm", models.RoleTeamMember)
	client := env.user(t, "client", models.RoleClient)
	promoted := env.user(t, "owner", models.RoleTeamMember)

	tests := []struct {
		name   string
		method string
		path   string
		user   *models.User
		want   int
	}{
		{"signed out dashboard", "GET", "/api/dashboard", nil, fiber.StatusUnauthorized},
		{"client dashboard", "GET", "/api/dashboard", client, fiber.StatusOK},
		{"client admin console", "GET", "/api/admin/clients", client, fiber.StatusForbidden},
		{"pm admin console", "GET", "/api/admin/clients", pm, fiber.StatusForbidden},
		{"admin console", "GET", "/api/admin/clients", admin, fiber.StatusOK},
		{"admin email override", "GET", "/api/admin/team", promoted, fiber.StatusOK},
		{"client creates project", "POST", "/api/projects", client, fiber.StatusForbidden},
		{"client lists projects", "GET", "/api/projects", client, fiber.StatusOK},
		{"notifications for pm", "GET", "/api/notifications/unread-count", pm, fiber.StatusOK},
		{"pm sends admin notification", "POST", "/api/admin/notifications", pm, fiber.StatusForbidden},
		{"me", "GET", "/api/auth/me", client, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := env.do(t, tt.method, tt.path, tt.user, "")
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, resp.StatusCode, raw)
			}
		})
	}
}

func TestWebhookSecretAndLegacyPaths(t *testing.T) {
	env := newTestEnv(t)
	body := `{"event":"contact_deleted","data":{"id":"c1"}}`

	resp, _ := env.do(t, "POST", "/api/webhooks/crm", nil, body)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without secret, got %d", resp.StatusCode)
	}
	var rejected int64
	env.db.Model(&models.WebhookDelivery{}).
		Where("source = ? AND status = ? AND response_code = ?", integrations.SourceCRM, models.DeliveryRejected, fiber.StatusUnauthorized).
		Count(&rejected)
	if rejected != 1 {
		t.Errorf("expected the unsigned delivery to be recorded, got %d rows", rejected)
	}

	req := httptest.NewRequest("POST", "/api/webhook/ghl", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(integrations.DefaultSecretHeader, "crm-secret")
	r, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if r.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected unsupported event 400 on legacy path, got %d", r.StatusCode)
	}

	resp, raw := env.do(t, "POST", "/api/webhook/pabbly", nil, `{"client":{"name":"Acme"},"subaccount":{"id":"s-1"}}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected funnel 200, got %d: %s", resp.StatusCode, raw)
	}
}

func TestProjectWorkflow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", models.RoleAdmin)
	pm := env.user(t, "pm", models.RoleTeamMember)

	resp, raw := env.do(t, "POST", "/api/admin/clients", admin, `{"name":"Acme","subaccount_id":"s-9"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create client: %d %s", resp.StatusCode, raw)
	}
	var client models.Client
	if err := json.Unmarshal(raw, &client); err != nil {
		t.Fatalf("decode client: %v", err)
	}

	resp, raw = env.do(t, "PUT", "/api/admin/clients/"+client.ID.String()+"/pm", admin, `{"pm_id":"`+pm.ID.String()+`"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("assign pm: %d %s", resp.StatusCode, raw)
	}

	resp, raw = env.do(t, "GET", "/api/projects", pm, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list projects: %d %s", resp.StatusCode, raw)
	}
	var list struct {
		Projects []models.Project `json:"projects"`
		Total    int64            `json:"total"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if list.Total != 1 || len(list.Projects) != 1 {
		t.Fatalf("expected the default project, got %s", raw)
	}
	projectID := list.Projects[0].ID.String()

	resp, raw = env.do(t, "POST", "/api/projects/"+projectID+"/tasks", pm, `{"title":"Logo"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create task: %d %s", resp.StatusCode, raw)
	}
	var task models.Task
	_ = json.Unmarshal(raw, &task)

	resp, raw = env.do(t, "PATCH", "/api/projects/tasks/"+task.ID.String()+"/move", pm, `{"status":"needs_review"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("move task: %d %s", resp.StatusCode, raw)
	}

	resp, raw = env.do(t, "GET", "/api/projects/"+projectID+"/board", pm, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("board: %d %s", resp.StatusCode, raw)
	}
	if !strings.Contains(string(raw), `"status":"needs_review"`) {
		t.Errorf("expected moved task on the board, got %s", raw)
	}
}
