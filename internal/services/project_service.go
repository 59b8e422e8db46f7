package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrTitleRequired        = errors.New("title is required")
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) List(user *models.User, limit, offset int) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{}).Scopes(VisibleProjects(user))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(database.RecentlyUpdated, database.Paginate(limit, offset)).Find(&projects).Error
	return projects, total, err
}

func (s *ProjectService) Get(user *models.User, id uuid.UUID) (*models.Project, error) {
	return visibleProject(s.db, user, id)
}

func (s *ProjectService) Create(req *dto.CreateProjectRequest) (*models.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if req.Status == "" {
		req.Status = models.ProjectPlanning
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidProjectStatus
	}

	var count int64
	if err := s.db.Model(&models.Client{}).Where("id = ?", req.ClientID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrClientNotFound
	}

	project := models.Project{
		Title:       title,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) Update(user *models.User, id uuid.UUID, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := visibleProject(s.db, user, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		updates["status"] = *req.Status
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return visibleProject(s.db, user, id)
}
