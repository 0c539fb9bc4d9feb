package models

import "time"

// LoginLog records sign-in attempts for auditing
type LoginLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Method    string    `gorm:"size:20;not null" json:"method"` // "google" or "magic_link"
	IP        string    `gorm:"size:64" json:"ip"`
	UserAgent string    `gorm:"size:300" json:"user_agent"`
	Success   bool      `gorm:"not null" json:"success"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName specifies the table name for the LoginLog model
func (LoginLog) TableName() string {
	return "login_log"
}
