package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTaskAssigned     NotificationType = "task_assigned"
	NotificationApprovalNeeded   NotificationType = "approval_needed"
	NotificationMissingData      NotificationType = "missing_data"
	NotificationProjectCompleted NotificationType = "project_completed"
	NotificationMessage          NotificationType = "message"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTaskAssigned, NotificationApprovalNeeded, NotificationMissingData,
		NotificationProjectCompleted, NotificationMessage:
		return true
	}
	return false
}

// Notification rows are write-once; only IsRead changes after insert.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string           `gorm:"not null;size:255" json:"title"`
	Content   string           `gorm:"type:text" json:"content"`
	Type      NotificationType `gorm:"size:30;not null" json:"type"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	RelatedID *uuid.UUID       `gorm:"type:uuid" json:"related_id,omitempty"`
	Metadata  datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
