package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
)

func TestOnboardingFlow(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	other := seedUser(t, db, "other", models.RoleTeamMember, nil)
	client := seedClient(t, db, "Acme", pm)
	owner := seedUser(t, db, "owner", models.RoleClient, &client.ID)
	svc := NewOnboardingService(db)

	if _, err := svc.SubmitValue(owner, &dto.OnboardingValueRequest{
		Category: models.OnboardingBranding, Type: "brand_colors", Value: "#003366",
	}); err != nil {
		t.Fatalf("submit value: %v", err)
	}
	item, err := svc.AttachUpload(owner, &dto.UploadCompleteRequest{
		Route: RouteDocumentUploader, Name: "contract.pdf", URL: "https://files.example.com/c.pdf",
		Type: "application/pdf", Size: 1 << 20,
		Onboarding: &dto.OnboardingTarget{Category: models.OnboardingLegal, Type: "contract"},
	})
	if err != nil {
		t.Fatalf("attach upload: %v", err)
	}
	if item.FileID == nil || item.File == nil {
		t.Fatalf("expected linked file, got %+v", item)
	}

	got, err := svc.Get(pm, &client.ID)
	if err != nil {
		t.Fatalf("get as pm: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	withFile := 0
	for _, it := range got.Items {
		if it.File != nil {
			withFile++
		}
	}
	if withFile != 1 {
		t.Errorf("expected the uploaded file preloaded on one item, got %d", withFile)
	}

	if _, err := svc.Get(other, &client.ID); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound for unassigned PM, got %v", err)
	}
}

func TestOnboardingValidation(t *testing.T) {
	db := dbtest.New(t)
	client := seedClient(t, db, "Acme", nil)
	owner := seedUser(t, db, "owner", models.RoleClient, &client.ID)
	svc := NewOnboardingService(db)

	tests := []struct {
		name string
		req  dto.OnboardingValueRequest
		want error
	}{
		{"bad category", dto.OnboardingValueRequest{Category: "finance", Type: "x", Value: "y"}, ErrInvalidCategory},
		{"missing type", dto.OnboardingValueRequest{Category: models.OnboardingContent, Value: "y"}, ErrItemTypeRequired},
		{"missing value", dto.OnboardingValueRequest{Category: models.OnboardingContent, Type: "about"}, ErrItemValueRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitValue(owner, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := svc.AttachUpload(owner, &dto.UploadCompleteRequest{
		Route: RouteImageUploader, Name: "huge.png", URL: "u", Type: "image/png", Size: 5 << 20,
		Onboarding: &dto.OnboardingTarget{Category: models.OnboardingBranding, Type: "logo"},
	}); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
	if n := countRows(t, db, &models.File{}, ""); n != 0 {
		t.Errorf("rejected upload left %d file rows", n)
	}
}
