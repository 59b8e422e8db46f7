package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message belongs to the thread of its project. SenderID is either a user
// or, for inbound CRM messages, the client organization.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
