package dto

import (
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
)

// --- Admin ---

type CreateClientRequest struct {
	Name         string     `json:"name"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone"`
	SubaccountID string     `json:"subaccount_id"`
	AssignedPMID *uuid.UUID `json:"assigned_pm_id"`
}

type AssignPMRequest struct {
	PMID uuid.UUID `json:"pm_id"`
}

// --- Projects & tasks ---

type CreateProjectRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	ClientID    uuid.UUID            `json:"client_id"`
	Status      models.ProjectStatus `json:"status"`
	DueDate     *time.Time           `json:"due_date"`
}

type UpdateProjectRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
	DueDate     *time.Time            `json:"due_date"`
}

type CreateTaskRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date"`
	AssigneeID  *uuid.UUID        `json:"assignee_id"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

type MoveTaskRequest struct {
	Status models.TaskStatus `json:"status"`
}

type BoardColumn struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []models.Task     `json:"tasks"`
}

type BoardResponse struct {
	Project models.Project `json:"project"`
	Columns []BoardColumn  `json:"columns"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// --- Messages ---

type SendMessageRequest struct {
	Content string `json:"content"`
}

type ThreadSummary struct {
	ProjectID     uuid.UUID `json:"project_id"`
	ProjectTitle  string    `json:"project_title"`
	LatestMessage string    `json:"latest_message"`
	Timestamp     time.Time `json:"timestamp"`
	UnreadCount   int       `json:"unread_count"`
}

type Sender struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

type ThreadMessage struct {
	models.Message
	Sender *Sender `json:"sender,omitempty"`
}

// --- Dashboard ---

type DashboardResponse struct {
	Projects      []models.Project      `json:"projects"`
	NextTask      *models.Task          `json:"next_task"`
	Notifications []models.Notification `json:"notifications"`
}

// --- Assets ---

type CreateCredentialRequest struct {
	ServiceName    string     `json:"service_name"`
	Username       string     `json:"username"`
	Password       string     `json:"password"`
	AdditionalInfo string     `json:"additional_info"`
	ProjectID      *uuid.UUID `json:"project_id"`
}

type CredentialResponse struct {
	ID             uuid.UUID  `json:"id"`
	ServiceName    string     `json:"service_name"`
	Username       string     `json:"username"`
	Password       string     `json:"password"`
	AdditionalInfo string     `json:"additional_info,omitempty"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UploadCompleteRequest is the file descriptor posted by the upload host
// once a file has been stored.
type UploadCompleteRequest struct {
	Route      string            `json:"route"`
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	Type       string            `json:"type"`
	Size       int64             `json:"size"`
	ProjectID  *uuid.UUID        `json:"project_id"`
	TaskID     *uuid.UUID        `json:"task_id"`
	Onboarding *OnboardingTarget `json:"onboarding,omitempty"`
}

// --- Onboarding ---

type OnboardingTarget struct {
	Category models.OnboardingCategory `json:"category"`
	Type     string                    `json:"type"`
}

type OnboardingValueRequest struct {
	Category models.OnboardingCategory `json:"category"`
	Type     string                    `json:"type"`
	Value    string                    `json:"value"`
}

type OnboardingResponse struct {
	Client *models.Client          `json:"client"`
	Items  []models.OnboardingItem `json:"items"`
}

// --- Notifications ---

type SendNotificationRequest struct {
	UserID    uuid.UUID               `json:"user_id"`
	Title     string                  `json:"title"`
	Content   string                  `json:"content"`
	Type      models.NotificationType `json:"type"`
	RelatedID *uuid.UUID              `json:"related_id"`
	Metadata  json.RawMessage         `json:"metadata"`
}
