package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidPM       = errors.New("project manager must be a team member or admin")
	ErrSubaccountTaken = errors.New("subaccount already linked to a client")
	ErrClientNameEmpty = errors.New("client name is required")
)

// ClientService backs the admin client console.
type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// List returns every client with its PM and project summaries, by name.
func (s *ClientService) List() ([]models.Client, error) {
	var clients []models.Client
	err := s.db.
		Preload("AssignedPM").
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "status", "client_id", "created_at", "updated_at").Order("created_at ASC")
		}).
		Order("name ASC").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) Get(id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := s.db.Preload("AssignedPM").Preload("Projects").First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Roster lists users who may be assigned as project managers.
func (s *ClientService) Roster() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("role IN ?", []models.Role{models.RoleTeamMember, models.RoleAdmin}).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	return users, nil
}

// AssignPM sets a client's project manager and notifies them.
func (s *ClientService) AssignPM(clientID, pmID uuid.UUID) (*models.Client, error) {
	if err := s.checkPM(s.db, pmID); err != nil {
		return nil, err
	}

	var client models.Client
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, "id = ?", clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		if err := tx.Model(&client).Update("assigned_pm_id", pmID).Error; err != nil {
			return fmt.Errorf("failed to assign PM: %w", err)
		}
		err := tx.Transaction(func(sp *gorm.DB) error {
			return notify(sp, pmID, models.NotificationTaskAssigned,
				"New Client Assigned",
				fmt.Sprintf("You have been assigned as the Project Manager for %s.", client.Name),
				&client.ID, nil)
		})
		if err != nil {
			slog.Error("failed to create PM notification", "client_id", client.ID, "pm_id", pmID, "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("PM assigned", "client_id", clientID, "pm_id", pmID)
	return s.Get(clientID)
}

// Create adds a client by hand together with its default project.
func (s *ClientService) Create(req *dto.CreateClientRequest) (*models.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrClientNameEmpty
	}
	if req.AssignedPMID != nil {
		if err := s.checkPM(s.db, *req.AssignedPMID); err != nil {
			return nil, err
		}
	}

	client := models.Client{
		Name:         name,
		ContactEmail: optionalString(req.ContactEmail),
		ContactPhone: optionalString(req.ContactPhone),
		SubaccountID: optionalString(req.SubaccountID),
		AssignedPMID: req.AssignedPMID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSubaccountTaken
			}
			return fmt.Errorf("failed to create client: %w", err)
		}
		project := models.Project{
			Title:       DefaultProjectTitle,
			Description: DefaultProjectDescription,
			ClientID:    client.ID,
			Status:      models.ProjectPlanning,
		}
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("failed to create default project: %w", err)
		}
		// Provisioning continues from the newest client's PM.
		if err := advanceRotation(tx, client.AssignedPMID); err != nil {
			return fmt.Errorf("failed to advance rotation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(client.ID)
}

func (s *ClientService) checkPM(db *gorm.DB, pmID uuid.UUID) error {
	var pm models.User
	err := db.Select("id", "role").First(&pm, "id = ?", pmID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidPM
	}
	if err != nil {
		return err
	}
	if !pm.Role.CanManageClients() {
		return ErrInvalidPM
	}
	return nil
}
