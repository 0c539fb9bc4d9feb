package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Space is a collaborative partition (a household). Events are scoped to
// exactly one space; birthday rows predate spaces and stay user-scoped.
type Space struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	OwnerID   string    `gorm:"size:64;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook assigns the id and creation time
func (s *Space) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Space model
func (Space) TableName() string {
	return "spaces"
}

// CreateSpaceRequest represents the data needed to create a new space
type CreateSpaceRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}
