package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskToDo        TaskStatus = "to_do"
	TaskInProgress  TaskStatus = "in_progress"
	TaskNeedsReview TaskStatus = "needs_review"
	TaskComplete    TaskStatus = "complete"
)

// TaskStatuses lists the board columns in display order.
var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskNeedsReview, TaskComplete}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string     `gorm:"not null;size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus `gorm:"size:20;not null;default:'to_do';index" json:"status"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskToDo
	}
	return nil
}

type TaskComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
