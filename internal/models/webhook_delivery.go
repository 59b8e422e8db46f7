package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DeliveryAccepted = "accepted"
	DeliveryRejected = "rejected"
	DeliveryFailed   = "failed"
)

// WebhookDelivery is the audit record of one inbound webhook body.
type WebhookDelivery struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Source       string         `gorm:"size:30;not null;index" json:"source"`
	Event        string         `gorm:"size:100;index" json:"event"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Status       string         `gorm:"size:20;not null;index" json:"status"`
	ResponseCode int            `json:"response_code"`
	Error        string         `gorm:"type:text" json:"error,omitempty"`
	RequestID    string         `gorm:"size:64" json:"request_id,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (d *WebhookDelivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
