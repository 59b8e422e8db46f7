package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmptyMessage = errors.New("message cannot be empty")

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Threads summarizes every visible project that has messages, latest
// activity first. Unread counts only messages sent by someone else.
func (s *MessageService) Threads(user *models.User) ([]dto.ThreadSummary, error) {
	var projects []models.Project
	if err := s.db.Scopes(VisibleProjects(user)).Select("id", "title").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if len(projects) == 0 {
		return []dto.ThreadSummary{}, nil
	}

	titles := make(map[uuid.UUID]string, len(projects))
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
		ids = append(ids, p.ID)
	}

	var messages []models.Message
	if err := s.db.Where("project_id IN ?", ids).Scopes(database.Newest).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	own := make(map[uuid.UUID]bool)
	for _, id := range Recipients(user) {
		own[id] = true
	}

	threads := []dto.ThreadSummary{}
	index := make(map[uuid.UUID]int)
	for _, m := range messages {
		i, ok := index[m.ProjectID]
		if !ok {
			i = len(threads)
			index[m.ProjectID] = i
			threads = append(threads, dto.ThreadSummary{
				ProjectID:     m.ProjectID,
				ProjectTitle:  titles[m.ProjectID],
				LatestMessage: m.Content,
				Timestamp:     m.CreatedAt,
			})
		}
		if !m.IsRead && !own[m.SenderID] {
			threads[i].UnreadCount++
		}
	}
	return threads, nil
}

// Thread returns a project's messages oldest first with sender names
// resolved, then marks messages from others as read.
func (s *MessageService) Thread(user *models.User, projectID uuid.UUID) ([]dto.ThreadMessage, error) {
	project, err := visibleProject(s.db, user, projectID)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	err = s.db.Scopes(database.ForProject(project.ID)).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	senders, err := s.senders(messages)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ThreadMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ThreadMessage{Message: m, Sender: senders[m.SenderID]})
	}

	err = s.db.Model(&models.Message{}).
		Where("project_id = ? AND is_read = ? AND sender_id NOT IN ?", project.ID, false, Recipients(user)).
		Update("is_read", true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return out, nil
}

func (s *MessageService) Send(user *models.User, projectID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	project, err := visibleProject(s.db, user, projectID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		SenderID:  user.ID,
		Content:   content,
		ProjectID: project.ID,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &message, nil
}

// senders resolves sender ids against users first, then clients, since
// inbound CRM messages are sent on behalf of the client organization.
func (s *MessageService) senders(messages []models.Message) (map[uuid.UUID]*dto.Sender, error) {
	out := make(map[uuid.UUID]*dto.Sender)
	if len(messages) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, m := range messages {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			ids = append(ids, m.SenderID)
		}
	}

	var users []models.User
	if err := s.db.Select("id", "name", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve senders: %w", err)
	}
	for _, u := range users {
		out[u.ID] = &dto.Sender{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	var clients []models.Client
	if err := s.db.Select("id", "name", "contact_email").Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve senders: %w", err)
	}
	for _, c := range clients {
		if _, ok := out[c.ID]; ok {
			continue
		}
		sender := &dto.Sender{ID: c.ID, Name: c.Name}
		if c.ContactEmail != nil {
			sender.Email = *c.ContactEmail
		}
		out[c.ID] = sender
	}
	return out, nil
}
