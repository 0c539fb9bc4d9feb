package models

import "time"

// ActivityLog represents an entry in a user's activity history
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID string    `gorm:"size:64;not null;index" json:"profile_id"`
	EventType string    `gorm:"size:30;not null" json:"event_type"` // create_event, delete_person, ...
	EntityID  string    `gorm:"size:64" json:"entity_id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_log"
}
