package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultClientName         = "New Client"
	DefaultProjectTitle       = "Initial Setup"
	DefaultProjectDescription = "Initial project setup for new client"
)

// ProvisionResult describes the outcome of a funnel provisioning request.
type ProvisionResult struct {
	ClientID  uuid.UUID
	ProjectID *uuid.UUID
	PMID      *uuid.UUID
	Existing  bool
}

type ProvisioningService struct {
	db *gorm.DB
}

func NewProvisioningService(db *gorm.DB) *ProvisioningService {
	return &ProvisioningService{db: db}
}

// ProvisionClient creates a client, its default project and a PM
// assignment for a new subaccount. Re-delivery of a known subaccount is a
// no-op that returns the existing client.
func (s *ProvisioningService) ProvisionClient(ctx context.Context, req *dto.FunnelWebhook) (*ProvisionResult, error) {
	if req == nil || req.Client == nil || req.Subaccount == nil {
		return nil, ErrInvalidPayload
	}
	subaccountID := strings.TrimSpace(req.Subaccount.ID.String())
	if subaccountID == "" {
		return nil, ErrInvalidPayload
	}

	db := s.db.WithContext(ctx)

	existing, err := findClientBySubaccount(db, subaccountID)
	if err != nil {
		return nil, storeErr("checking for existing client", err)
	}
	if existing != nil {
		return &ProvisionResult{ClientID: existing.ID, PMID: existing.AssignedPMID, Existing: true}, nil
	}

	name := strings.TrimSpace(req.Client.Name)
	if name == "" {
		name = DefaultClientName
	}

	var result ProvisionResult
	err = db.Transaction(func(tx *gorm.DB) error {
		roster, err := teamRoster(tx)
		if err != nil {
			return storeErr("fetching team members", err)
		}

		var pmID *uuid.UUID
		if len(roster) > 0 {
			last, err := lastAssignedPM(tx)
			if err != nil {
				return storeErr("reading last assignment", err)
			}
			pmID = NextAssignee(roster, last)
		}

		client := models.Client{
			Name:         name,
			ContactEmail: optionalString(req.Client.Email),
			ContactPhone: optionalString(req.Client.Phone),
			SubaccountID: &subaccountID,
			AssignedPMID: pmID,
		}
		if err := tx.Create(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return storeErr("creating client", err)
		}

		project := models.Project{
			Title:       DefaultProjectTitle,
			Description: DefaultProjectDescription,
			ClientID:    client.ID,
			Status:      models.ProjectPlanning,
		}
		if err := tx.Create(&project).Error; err != nil {
			return storeErr("creating default project", err)
		}

		if err := advanceRotation(tx, pmID); err != nil {
			return storeErr("advancing PM rotation", err)
		}

		if pmID != nil {
			displayName := req.Client.Name
			if strings.TrimSpace(displayName) == "" {
				displayName = "a new client"
			}
			// Savepoint: a failed notification must not undo the client.
			err := tx.Transaction(func(sp *gorm.DB) error {
				return notify(sp, *pmID, models.NotificationTaskAssigned,
					"New Client Assigned",
					fmt.Sprintf("You have been assigned as the Project Manager for %s.", displayName),
					&client.ID, nil)
			})
			if err != nil {
				slog.Error("failed to create PM notification", "client_id", client.ID, "pm_id", pmID, "error", err)
			}
		}

		result = ProvisionResult{ClientID: client.ID, ProjectID: &project.ID, PMID: pmID}
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent delivery for the same subaccount won the insert.
		existing, lookupErr := findClientBySubaccount(db, subaccountID)
		if lookupErr != nil || existing == nil {
			return nil, storeErr("creating client", err)
		}
		return &ProvisionResult{ClientID: existing.ID, PMID: existing.AssignedPMID, Existing: true}, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Info("client provisioned", "client_id", result.ClientID, "project_id", result.ProjectID, "pm_id", result.PMID)
	return &result, nil
}

func findClientBySubaccount(db *gorm.DB, subaccountID string) (*models.Client, error) {
	var client models.Client
	err := db.Where("subaccount_id = ?", subaccountID).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
