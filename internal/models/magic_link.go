package models

import "time"

// MagicLinkDuration is how long a sign-in link stays usable
const MagicLinkDuration = time.Minute * 15

// MagicLink records one issued passwordless sign-in token so each link can be
// consumed exactly once. The token itself is a signed JWT; only its jti lands
// here.
type MagicLink struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenID    string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Email      string     `gorm:"size:255;not null;index" json:"email"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}

// IsExpired checks if the link can no longer be used
func (m *MagicLink) IsExpired() bool {
	return time.Now().After(m.ExpiresAt)
}

// IsConsumed checks if the link was already used
func (m *MagicLink) IsConsumed() bool {
	return m.ConsumedAt != nil
}

// TableName specifies the table name for the MagicLink model
func (MagicLink) TableName() string {
	return "magic_links"
}

// MagicLinkRequest asks for a sign-in link to be emailed
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}
