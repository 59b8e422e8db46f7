package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidMetadata         = errors.New("metadata must be valid JSON")
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// notify inserts a notification through tx. Callers decide whether a
// failure is fatal.
func notify(tx *gorm.DB, userID uuid.UUID, kind models.NotificationType, title, content string, relatedID *uuid.UUID, metadata map[string]string) error {
	n := models.Notification{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Type:      kind,
		RelatedID: relatedID,
	}
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		n.Metadata = datatypes.JSON(b)
	}
	return tx.Create(&n).Error
}

// Recipients returns every notification address that belongs to user: the
// user itself and, for client logins, the client organization.
func Recipients(user *models.User) []uuid.UUID {
	ids := []uuid.UUID{user.ID}
	if user.ClientID != nil {
		ids = append(ids, *user.ClientID)
	}
	return ids
}

func (s *NotificationService) List(user *models.User, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := s.db.Model(&models.Notification{}).Where("user_id IN ?", Recipients(user))
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(database.Newest, database.Paginate(limit, offset)).Find(&notifications).Error
	return notifications, total, err
}

func (s *NotificationService) Recent(user *models.User, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id IN ?", Recipients(user)).
		Scopes(database.Newest).
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) UnreadCount(user *models.User) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id IN ? AND is_read = ?", Recipients(user), false).
		Count(&count).Error
	return count, err
}

// MarkRead flips the read flag, the only mutable notification field.
func (s *NotificationService) MarkRead(user *models.User, id uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id IN ?", id, Recipients(user)).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(user *models.User) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id IN ? AND is_read = ?", Recipients(user), false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// Send writes a notification on behalf of an admin.
func (s *NotificationService) Send(req *dto.SendNotificationRequest) (*models.Notification, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidNotificationType
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	// Recipients are users or, for client-wide notices, client organizations.
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", req.UserID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.db.Model(&models.Client{}).Where("id = ?", req.UserID).Count(&count).Error; err != nil {
			return nil, err
		}
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	n := models.Notification{
		UserID:    req.UserID,
		Title:     title,
		Content:   req.Content,
		Type:      req.Type,
		RelatedID: req.RelatedID,
	}
	if len(req.Metadata) > 0 {
		if !json.Valid(req.Metadata) {
			return nil, ErrInvalidMetadata
		}
		n.Metadata = datatypes.JSON(req.Metadata)
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}
	return &n, nil
}
