package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Delivery is one inbound webhook body and how it was answered.
type Delivery struct {
	Source       string
	Event        string
	Payload      []byte
	Status       string
	ResponseCode int
	Error        string
	RequestID    string
}

// DeliveryService keeps the audit trail of inbound webhooks.
type DeliveryService struct {
	db *gorm.DB
}

func NewDeliveryService(db *gorm.DB) *DeliveryService {
	return &DeliveryService{db: db}
}

// Record stores d. Failures are logged and never reach the caller.
func (s *DeliveryService) Record(ctx context.Context, d Delivery) {
	row := models.WebhookDelivery{
		Source:       d.Source,
		Event:        d.Event,
		Status:       d.Status,
		ResponseCode: d.ResponseCode,
		Error:        d.Error,
		RequestID:    d.RequestID,
	}
	// Non-JSON bodies are still worth keeping; wrap them as a string.
	if json.Valid(d.Payload) {
		row.Payload = datatypes.JSON(d.Payload)
	} else if raw, err := json.Marshal(string(d.Payload)); err == nil {
		row.Payload = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		slog.Error("failed to record webhook delivery", "source", d.Source, "event", d.Event, "error", err)
	}
}

func (s *DeliveryService) List(source, status string, limit, offset int) ([]models.WebhookDelivery, int64, error) {
	var deliveries []models.WebhookDelivery
	var total int64

	query := s.db.Model(&models.WebhookDelivery{})
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(database.Newest, database.Paginate(limit, offset)).Find(&deliveries).Error
	return deliveries, total, err
}
