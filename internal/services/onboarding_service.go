package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCategory   = errors.New("invalid onboarding category")
	ErrItemTypeRequired  = errors.New("onboarding item type is required")
	ErrItemValueRequired = errors.New("onboarding value is required")
)

type OnboardingService struct {
	db *gorm.DB
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{db: db}
}

// Get returns the client record and its onboarding items. Client logins
// always see their own organization; staff pass the client to inspect.
func (s *OnboardingService) Get(user *models.User, clientID *uuid.UUID) (*dto.OnboardingResponse, error) {
	client, err := s.resolveClient(user, clientID)
	if err != nil {
		return nil, err
	}

	items := []models.OnboardingItem{}
	err = s.db.Preload("File").
		Where("client_id = ?", client.ID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding items: %w", err)
	}
	return &dto.OnboardingResponse{Client: client, Items: items}, nil
}

// SubmitValue stores a text answer for an onboarding item.
func (s *OnboardingService) SubmitValue(user *models.User, req *dto.OnboardingValueRequest) (*models.OnboardingItem, error) {
	if err := checkOnboardingTarget(req.Category, req.Type); err != nil {
		return nil, err
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, ErrItemValueRequired
	}
	client, err := s.resolveClient(user, nil)
	if err != nil {
		return nil, err
	}

	item := models.OnboardingItem{
		Type:     strings.TrimSpace(req.Type),
		Category: req.Category,
		Value:    value,
		ClientID: client.ID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to store onboarding item: %w", err)
	}
	return &item, nil
}

// AttachUpload records an uploaded file and links it to a new onboarding
// item in one transaction.
func (s *OnboardingService) AttachUpload(user *models.User, req *dto.UploadCompleteRequest) (*models.OnboardingItem, error) {
	if req.Onboarding == nil {
		return nil, ErrInvalidUpload
	}
	if err := checkOnboardingTarget(req.Onboarding.Category, req.Onboarding.Type); err != nil {
		return nil, err
	}
	file, err := newUploadedFile(user, req)
	if err != nil {
		return nil, err
	}
	client, err := s.resolveClient(user, nil)
	if err != nil {
		return nil, err
	}

	item := models.OnboardingItem{
		Type:     strings.TrimSpace(req.Onboarding.Type),
		Category: req.Onboarding.Category,
		ClientID: client.ID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return fmt.Errorf("failed to record upload: %w", err)
		}
		item.FileID = &file.ID
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to store onboarding item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	item.File = file
	return &item, nil
}

func (s *OnboardingService) resolveClient(user *models.User, clientID *uuid.UUID) (*models.Client, error) {
	query := s.db.Model(&models.Client{})
	switch user.Role {
	case models.RoleClient:
		if user.ClientID == nil {
			return nil, ErrClientNotFound
		}
		query = query.Where("id = ?", *user.ClientID)
	case models.RoleTeamMember:
		if clientID == nil {
			return nil, ErrClientNotFound
		}
		query = query.Where("id = ? AND assigned_pm_id = ?", *clientID, user.ID)
	default:
		if clientID == nil {
			return nil, ErrClientNotFound
		}
		query = query.Where("id = ?", *clientID)
	}

	var client models.Client
	err := query.First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func checkOnboardingTarget(category models.OnboardingCategory, itemType string) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(itemType) == "" {
		return ErrItemTypeRequired
	}
	return nil
}
