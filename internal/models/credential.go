package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential stores third-party access for a project. Password holds vault
// ciphertext, never plaintext.
type Credential struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceName    string     `gorm:"not null;size:255" json:"service_name"`
	Username       string     `gorm:"size:255" json:"username"`
	Password       string     `gorm:"type:text" json:"-"`
	AdditionalInfo string     `gorm:"type:text" json:"additional_info,omitempty"`
	ProjectID      *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
