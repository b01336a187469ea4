package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Number    string         `gorm:"uniqueIndex:uq_projects_number"`
	Name      string         `gorm:"not null"`
	Customer  string
	Address   string
	Status    string `gorm:"not null;default:'ACTIVE'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}

// Attachment stores file metadata only. The bytes live in external object
// storage keyed by ObjectKey.
type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"not null"`
	ObjectKey   string    `gorm:"not null"`
	FileName    string    `gorm:"not null"`
	ContentType string
	UploadedBy  uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (Attachment) TableName() string {
	return "project_attachments"
}
