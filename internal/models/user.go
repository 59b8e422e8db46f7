package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeamMember Role = "team_member"
	RoleClient     Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamMember, RoleClient:
		return true
	}
	return false
}

// CanManageClients reports whether a user with this role may be assigned as a PM.
func (r Role) CanManageClients() bool {
	return r == RoleAdmin || r == RoleTeamMember
}

type User struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string     `gorm:"size:255" json:"name"`
	Email    string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password string     `gorm:"size:255" json:"-"`
	Role     Role       `gorm:"size:20;not null;default:'client';index" json:"role"`
	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	// ExternalID is the identity provider subject for users created on first sign-in.
	ExternalID *string   `gorm:"size:255;uniqueIndex" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}
