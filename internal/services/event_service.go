package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventOnboardingCompleted = "onboarding_completed"
	EventTaskStatusChanged   = "task_status_changed"
	EventMessageReceived     = "message_received"
)

// messagePreviewLength caps the message excerpt in PM notifications.
const messagePreviewLength = 50

// EventService applies CRM events to the store. Each event runs its
// lookups and writes sequentially; notifications are best-effort.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Dispatch routes event to its handler and returns the success message.
func (s *EventService) Dispatch(ctx context.Context, event string, data json.RawMessage) (string, error) {
	db := s.db.WithContext(ctx)

	switch event {
	case EventOnboardingCompleted:
		var payload dto.OnboardingCompletedData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", ErrInvalidPayload
		}
		return s.handleOnboardingCompleted(db, &payload)
	case EventTaskStatusChanged:
		var payload dto.TaskStatusChangedData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", ErrInvalidPayload
		}
		return s.handleTaskStatusChanged(db, &payload)
	case EventMessageReceived:
		var payload dto.MessageReceivedData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", ErrInvalidPayload
		}
		return s.handleMessageReceived(db, &payload)
	default:
		return "", ErrUnsupportedEvent
	}
}

func (s *EventService) handleOnboardingCompleted(db *gorm.DB, data *dto.OnboardingCompletedData) (string, error) {
	subaccountID := strings.TrimSpace(data.SubaccountID.String())
	if subaccountID == "" {
		return "", ErrInvalidPayload
	}

	client, err := findClientBySubaccount(db, subaccountID)
	if err != nil {
		return "", storeErr("finding client", err)
	}
	if client == nil {
		return "", ErrClientNotFound
	}

	if client.AssignedPMID == nil {
		slog.Warn("onboarding completed for client without PM", "client_id", client.ID)
	} else if err := notify(db, *client.AssignedPMID, models.NotificationApprovalNeeded,
		"Onboarding Completed",
		fmt.Sprintf("%s has completed their onboarding form.", client.Name),
		&client.ID, map[string]string{"subaccount_id": subaccountID}); err != nil {
		slog.Error("failed to create onboarding notification", "client_id", client.ID, "error", err)
	}

	return "Onboarding completion processed", nil
}

func (s *EventService) handleTaskStatusChanged(db *gorm.DB, data *dto.TaskStatusChangedData) (string, error) {
	rawID := strings.TrimSpace(data.TaskID.String())
	if rawID == "" {
		return "", ErrInvalidPayload
	}
	taskID, err := uuid.Parse(rawID)
	if err != nil {
		// Not one of our ids, so it cannot exist.
		return "", ErrTaskNotFound
	}

	var task models.Task
	err = db.Preload("Project").Where("id = ?", taskID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrTaskNotFound
	}
	if err != nil {
		return "", storeErr("finding task", err)
	}

	status := MapExternalStatus(data.Status)
	if err := db.Model(&models.Task{}).Where("id = ?", task.ID).Update("status", status).Error; err != nil {
		return "", storeErr("updating task", err)
	}

	if task.Project == nil {
		slog.Warn("task has no parent project", "task_id", task.ID)
	} else if err := notify(db, task.Project.ClientID, models.NotificationTaskAssigned,
		"Task Status Updated",
		fmt.Sprintf("Task \"%s\" has been updated to %s.", task.Title, data.Status),
		&task.ID, map[string]string{"external_status": data.Status, "status": string(status)}); err != nil {
		slog.Error("failed to create task status notification", "task_id", task.ID, "error", err)
	}

	return "Task status update processed", nil
}

func (s *EventService) handleMessageReceived(db *gorm.DB, data *dto.MessageReceivedData) (string, error) {
	from := strings.TrimSpace(data.From)
	if from == "" || data.Message == "" {
		return "", ErrInvalidPayload
	}

	var client models.Client
	err := db.Where("contact_phone = ? OR contact_email = ?", from, from).
		Scopes(database.Newest).
		Take(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrClientNotFound
	}
	if err != nil {
		return "", storeErr("finding client", err)
	}

	var project models.Project
	err = db.Scopes(database.ForClient(client.ID), database.Newest).Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", storeErr("finding project", err)
	}

	message := models.Message{
		SenderID:  client.ID,
		Content:   data.Message,
		ProjectID: project.ID,
		IsRead:    false,
	}
	if err := db.Create(&message).Error; err != nil {
		return "", storeErr("creating message", err)
	}

	if client.AssignedPMID != nil {
		if err := notify(db, *client.AssignedPMID, models.NotificationMessage,
			"New Message",
			fmt.Sprintf("New message from %s: \"%s\"", client.Name, Preview(data.Message, messagePreviewLength)),
			&project.ID, map[string]string{"message_id": message.ID.String()}); err != nil {
			slog.Error("failed to create message notification", "client_id", client.ID, "error", err)
		}
	}

	return "Message processed", nil
}

// Preview cuts s to n runes, appending an ellipsis when it was longer.
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
