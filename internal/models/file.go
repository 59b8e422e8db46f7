package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FileName   string     `gorm:"not null;size:255" json:"file_name"`
	FileURL    string     `gorm:"type:text;not null" json:"file_url"`
	FileType   string     `gorm:"size:100" json:"file_type"`
	FileSize   int64      `json:"file_size"`
	UploaderID *uuid.UUID `gorm:"type:uuid;index" json:"uploader_id,omitempty"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	TaskID     *uuid.UUID `gorm:"type:uuid;index" json:"task_id,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
