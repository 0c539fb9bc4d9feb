package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person is a tracked birthday record. The birthdate is kept as a raw date
// string and validated on read; its year component is ignored for recurrence
// and no recurrence state is ever stored. Rows predate space scoping and
// remain scoped to the owning user.
type Person struct {
	ID        string  `gorm:"primaryKey;size:64" json:"id"`
	UserID    string  `gorm:"size:64;not null;index" json:"user_id"`
	Name      string  `gorm:"size:120;not null" json:"name"`
	Birthdate *string `gorm:"size:32" json:"birthdate"`
	Notes     *string `gorm:"type:text" json:"notes"`

	// Contact columns rolled out after launch; reads and writes fall back to
	// the reduced column set when the store reports them missing.
	Email           *string `gorm:"size:255" json:"email"`
	Relationship    *string `gorm:"size:80" json:"relationship"`
	LinkedProfileID *string `gorm:"size:64;index" json:"linked_profile_id"` // weak ref, not ownership

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook assigns the id and creation time
func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}

// TableName keeps the original storage table for birthday records
func (Person) TableName() string {
	return "birthdays"
}

// BirthdateValue returns the stored birthdate or "" when absent.
func (p *Person) BirthdateValue() string {
	if p.Birthdate == nil {
		return ""
	}
	return *p.Birthdate
}

// PersonRequest represents the data needed to create or update a birthday record
type PersonRequest struct {
	Name         string `json:"name" binding:"required,max=120"`
	Birthdate    string `json:"birthdate" binding:"max=32"`
	Notes        string `json:"notes" binding:"max=2000"`
	Email        string `json:"email" binding:"omitempty,email"`
	Relationship string `json:"relationship" binding:"max=80"`
}
