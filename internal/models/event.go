package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a calendar entry owned by exactly one space. EndsAt may be absent,
// meaning a point-in-time event.
type Event struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	SpaceID     string     `gorm:"size:64;not null;index" json:"space_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	StartsAt    *time.Time `gorm:"index" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook assigns the id and creation time
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}

// DescriptionValue returns the stored description or "" when absent.
func (e *Event) DescriptionValue() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}

// EventReminder is the lead-time attribute of an event, split into its own
// row for schema evolution. At most one per event, upserted on event_id;
// selecting "None" deletes the row.
type EventReminder struct {
	ID                  string    `gorm:"primaryKey;size:64" json:"id"`
	EventID             string    `gorm:"size:64;not null;uniqueIndex" json:"event_id"`
	SpaceID             string    `gorm:"size:64;not null;index" json:"space_id"`
	RemindMinutesBefore int       `gorm:"not null" json:"remind_minutes_before"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook assigns the id and creation time
func (r *EventReminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the EventReminder model
func (EventReminder) TableName() string {
	return "event_reminders"
}

// EventRequest represents the data needed to create or update an event.
// Times arrive as strings from datetime-local inputs and are validated with
// the temporal parse leaf before any storage call.
type EventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	StartsAt    string `json:"starts_at" binding:"required"`
	EndsAt      string `json:"ends_at"`

	// Optional lead time in minutes; nil leaves the reminder untouched, zero
	// removes it, positive upserts it.
	ReminderMinutes *int `json:"reminder_minutes" binding:"omitempty,min=0"`
}

// ReminderRequest sets an event's reminder lead time
type ReminderRequest struct {
	RemindMinutesBefore int `json:"remind_minutes_before" binding:"min=0"`
}
