package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RotationCursor remembers the last member picked by a named rotation.
type RotationCursor struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string     `gorm:"size:50;not null;uniqueIndex" json:"name"`
	LastUserID *uuid.UUID `gorm:"type:uuid" json:"last_user_id,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (r *RotationCursor) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
