package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile mirrors an authenticated user from the identity provider. The row
// is upserted on every auth callback so email/name/avatar stay current.
type Profile struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"` // provider subject
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName  string         `gorm:"size:120" json:"full_name"`
	AvatarURL string         `gorm:"size:500" json:"avatar_url"`
	GoogleID  string         `gorm:"size:128;index" json:"-"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"-"` // raw provider claims

	// Persisted "current space" preference (two values, mirrors what the web
	// client kept in local storage).
	CurrentSpaceID   string `gorm:"size:64" json:"current_space_id"`
	CurrentSpaceName string `gorm:"size:120" json:"current_space_name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new profile
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// BeforeSave hook is called before saving the profile
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// UpdateProfileRequest carries an editable profile field
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=80"`
}

// SpacePreferenceRequest sets the caller's current space
type SpacePreferenceRequest struct {
	SpaceID string `json:"space_id" binding:"required"`
}
