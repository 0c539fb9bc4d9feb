package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// SessionCookieName is the name of the cookie that stores the session ID
	SessionCookieName = "kyndra_session"
	// StateCookieName is the name of the cookie that temporarily stores the OAuth state
	StateCookieName = "kyndra_oauth_state"
	// SessionIDLength is the length of the random session ID in bytes
	SessionIDLength = 32
	// StateLength is the length of the random state string in bytes
	StateLength = 32
)

// GenerateRandomString creates a cryptographically secure random string
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// CreateSession starts a new session for the profile and sets the cookie
func CreateSession(c *gin.Context, profile *models.Profile) error {
	sessionID, err := GenerateRandomString(SessionIDLength)
	if err != nil {
		return fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := models.Session{
		ID:        sessionID,
		ProfileID: profile.ID,
		Email:     profile.Email,
		Name:      profile.FullName,
		Picture:   profile.AvatarURL,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(models.SessionDuration),
	}

	db := database.GetDB()
	if err := db.Create(&session).Error; err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(
		SessionCookieName,
		sessionID,
		int(time.Until(session.ExpiresAt).Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly
	)

	return nil
}

// GetSession retrieves the current session from the request
func GetSession(c *gin.Context) (*models.Session, error) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("session cookie not found: %w", err)
	}

	db := database.GetDB()
	var session models.Session
	if err := db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	if session.IsExpired() {
		DeleteSession(c)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// DeleteSession removes the session and clears cookies
func DeleteSession(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err == nil {
		db := database.GetDB()
		db.Where("id = ?", sessionID).Delete(&models.Session{})
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// SetOAuthState generates and stores a random state for CSRF protection
func SetOAuthState(c *gin.Context) (string, error) {
	state, err := GenerateRandomString(StateLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	// Only lives for the duration of the OAuth round trip
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(
		StateCookieName,
		state,
		int(10*time.Minute.Seconds()),
		"/",
		"",
		secure,
		true,
	)

	return state, nil
}

// VerifyOAuthState verifies the state parameter from the OAuth callback
func VerifyOAuthState(c *gin.Context, receivedState string) bool {
	savedState, err := c.Cookie(StateCookieName)
	if err != nil {
		return false
	}

	// Clear the state cookie regardless of outcome
	c.SetCookie(StateCookieName, "", -1, "/", "", false, true)

	return savedState == receivedState
}
