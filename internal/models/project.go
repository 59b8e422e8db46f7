package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectReview, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"not null;size:255" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	Status      ProjectStatus `gorm:"size:20;not null;default:'planning'" json:"status"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"index" json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectPlanning
	}
	return nil
}
