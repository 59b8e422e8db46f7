package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OnboardingCategory string

const (
	OnboardingBranding          OnboardingCategory = "branding"
	OnboardingAccessCredentials OnboardingCategory = "access_credentials"
	OnboardingLegal             OnboardingCategory = "legal"
	OnboardingContent           OnboardingCategory = "content"
)

func (c OnboardingCategory) Valid() bool {
	switch c {
	case OnboardingBranding, OnboardingAccessCredentials, OnboardingLegal, OnboardingContent:
		return true
	}
	return false
}

type OnboardingItem struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string             `gorm:"not null;size:100" json:"type"`
	Category  OnboardingCategory `gorm:"size:30;not null" json:"category"`
	Value     string             `gorm:"type:text" json:"value,omitempty"`
	FileID    *uuid.UUID         `gorm:"type:uuid" json:"file_id,omitempty"`
	ClientID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	File      *File              `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

func (o *OnboardingItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
