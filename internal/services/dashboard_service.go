package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	dashboardProjects      = 5
	dashboardNotifications = 5
)

type DashboardService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, notifications: NewNotificationService(db)}
}

// Get builds the dashboard: recent visible projects, the next open task by
// due date and the latest notifications.
func (s *DashboardService) Get(user *models.User) (*dto.DashboardResponse, error) {
	projects := []models.Project{}
	err := s.db.Scopes(VisibleProjects(user), database.RecentlyUpdated).
		Limit(dashboardProjects).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	resp := &dto.DashboardResponse{Projects: projects}

	if len(projects) > 0 {
		ids := make([]uuid.UUID, 0, len(projects))
		for _, p := range projects {
			ids = append(ids, p.ID)
		}
		var task models.Task
		// Undated tasks sort after dated ones on every driver.
		err := s.db.Where("project_id IN ? AND status = ?", ids, models.TaskToDo).
			Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").
			Order("due_date ASC").
			Order("created_at ASC").
			First(&task).Error
		switch {
		case err == nil:
			resp.NextTask = &task
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to load next task: %w", err)
		}
	}

	notifications, err := s.notifications.Recent(user, dashboardNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	resp.Notifications = notifications
	return resp, nil
}
