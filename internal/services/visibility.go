package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisibleProjects scopes a projects query to what user may see: admins see
// everything, team members the projects of clients they manage, clients
// their own organization's projects.
func VisibleProjects(user *models.User) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch user.Role {
		case models.RoleAdmin:
			return db
		case models.RoleTeamMember:
			return db.Where("client_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.Client{}).Select("id").Where("assigned_pm_id = ?", user.ID))
		default:
			if user.ClientID == nil {
				return db.Where("1 = 0")
			}
			return db.Where("client_id = ?", *user.ClientID)
		}
	}
}

// visibleProject loads a project if user may see it.
func visibleProject(db *gorm.DB, user *models.User, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := db.Scopes(VisibleProjects(user)).Where("id = ?", projectID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}
