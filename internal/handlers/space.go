package handlers

import (
	"errors"
	"fmt"
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListSpaces returns the caller's spaces ordered by creation time
func ListSpaces(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	db := database.GetDB()
	var spaces []models.Space
	if err := db.Where("owner_id = ?", profileID).
		Order("created_at asc").
		Find(&spaces).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch spaces", err)
		return
	}

	c.JSON(http.StatusOK, spaces)
}

// CreateSpace creates a new space owned by the caller
func CreateSpace(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	var req models.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Space name is required"})
		return
	}

	space := models.Space{
		Name:    name,
		OwnerID: profileID,
	}

	db := database.GetDB()
	if err := db.Create(&space).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create space", err)
		return
	}

	if err := LogActivity(profileID, "create_space", space.ID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	c.JSON(http.StatusCreated, space)
}

// GetSpacePreference returns the caller's persisted current-space selection.
// Both values come back even when the space row no longer exists; the client
// falls back to its first space in that case.
func GetSpacePreference(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", profileID).First(&profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load preference", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"space_id":   profile.CurrentSpaceID,
		"space_name": profile.CurrentSpaceName,
	})
}

// SetSpacePreference persists the caller's current-space selection. The name
// is snapshotted alongside the id so the header can render without a join.
func SetSpacePreference(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	var req models.SpacePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()
	var space models.Space
	if err := db.Where("id = ? AND owner_id = ?", req.SpaceID, profileID).First(&space).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "space not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return
	}

	if err := db.Model(&models.Profile{}).Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"current_space_id":   space.ID,
			"current_space_name": space.Name,
		}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save preference", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"space_id":   space.ID,
		"space_name": space.Name,
	})
}

// requireSpace loads a space and checks the caller owns it. Writes the error
// response itself and reports ok=false when the caller should stop.
func requireSpace(c *gin.Context, spaceID string) (*models.Space, bool) {
	profileID := c.GetString(auth.CtxProfileID)

	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return nil, false
	}

	db := database.GetDB()
	var space models.Space
	if err := db.Where("id = ? AND owner_id = ?", spaceID, profileID).First(&space).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "space not found"})
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return nil, false
	}
	return &space, true
}
