package handlers

import (
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	log.Printf("Error: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Kyndra!")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// LoginHandler redirects to Google OAuth login
func LoginHandler(c *gin.Context) {
	url, err := auth.GetLoginURL(c)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate login URL", err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallbackHandler processes the OAuth callback from Google
func GoogleCallbackHandler(c *gin.Context) {
	auth.HandleGoogleCallback(c)
}

// LogActivity adds a new entry to a profile's activity history
func LogActivity(profileID string, eventType string, entityID string) error {
	activity := models.ActivityLog{
		ProfileID: profileID,
		EventType: eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}

	db := database.GetDB()
	err := db.Create(&activity).Error
	if err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}
	return err
}
