package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is an agency customer organization.
type Client struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null;size:255;index" json:"name"`
	ContactEmail *string    `gorm:"size:255;index" json:"contact_email,omitempty"`
	ContactPhone *string    `gorm:"size:50;index" json:"contact_phone,omitempty"`
	SubaccountID *string    `gorm:"size:255;uniqueIndex" json:"subaccount_id,omitempty"`
	AssignedPMID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_pm_id,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	AssignedPM   *User      `gorm:"foreignKey:AssignedPMID" json:"assigned_pm,omitempty"`
	Projects     []Project  `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
