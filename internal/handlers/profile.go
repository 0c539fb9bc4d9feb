package handlers

import (
	"errors"
	"fmt"
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"kyndra/internal/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxAvatarSize = 5 * 1024 * 1024

// GetProfile returns the caller's profile
func GetProfile(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", profileID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's display name
func UpdateProfile(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", profileID).First(&profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load profile", err)
		return
	}

	profile.FullName = name
	if err := db.Save(&profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar accepts a multipart image, stores it with Cloudinary and saves
// the delivery URL on the profile
func UploadAvatar(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing avatar file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	imageService, err := services.NewImageService()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Image uploads are not configured", err)
		return
	}

	if err := imageService.ValidateImageFile(file, maxAvatarSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	avatarURL, err := imageService.UploadAvatar(c.Request.Context(), file, fileHeader.Filename, profileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.Profile{}).Where("id = ?", profileID).
		Update("avatar_url", avatarURL).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save avatar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": avatarURL})
}
