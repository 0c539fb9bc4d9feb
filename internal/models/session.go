package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionDuration is the length of time a session remains valid
const SessionDuration = time.Hour * 24 * 30 // 30 days

// Session represents a signed-in browser session. It carries only an
// identity snapshot; no provider tokens are stored.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"-"`
	ProfileID string    `gorm:"size:64;index" json:"-"`
	Email     string    `gorm:"size:255" json:"-"`
	Name      string    `gorm:"size:120" json:"-"`
	Picture   string    `gorm:"size:500" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"-"`
}

// BeforeCreate hook for sessions
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(SessionDuration)
	}
	return nil
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}
