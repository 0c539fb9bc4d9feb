package handlers

import (
	"errors"
	"fmt"
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"kyndra/internal/services"
	"kyndra/internal/utils"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestMagicLink issues a one-time sign-in link and emails it. The response
// is the same whether or not the address is known, so the endpoint cannot be
// used to probe for accounts.
func RequestMagicLink(c *gin.Context) {
	var req models.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	token, jti, err := auth.GenerateMagicToken(email)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create sign-in link", err)
		return
	}

	db := database.GetDB()
	link := models.MagicLink{
		TokenID:   jti,
		Email:     email,
		ExpiresAt: time.Now().Add(models.MagicLinkDuration),
		CreatedAt: time.Now(),
	}
	if err := db.Create(&link).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create sign-in link", err)
		return
	}

	signInURL := fmt.Sprintf("%s/auth/magic?token=%s", auth.AppBaseURL(), url.QueryEscape(token))
	emailService := services.NewEmailService()
	if err := emailService.SendMagicLinkEmail(email, signInURL); err != nil {
		log.Printf("Error: failed to send magic link email to %s: %v", email, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If that address is registered, a sign-in link is on its way"})
}

// VerifyMagicLink consumes a one-time token and establishes a session
func VerifyMagicLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	claims, err := auth.ValidateMagicToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired sign-in link"})
		return
	}

	db := database.GetDB()
	var link models.MagicLink
	if err := db.Where("token_id = ?", claims.ID).First(&link).Error; err != nil {
		recordMagicLogin(c, claims.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired sign-in link"})
		return
	}

	if link.IsExpired() || link.IsConsumed() {
		recordMagicLogin(c, claims.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This sign-in link has already been used or expired"})
		return
	}

	// Conditional update so two racing uses of the same link cannot both pass
	result := db.Model(&models.MagicLink{}).
		Where("token_id = ? AND consumed_at IS NULL", claims.ID).
		Update("consumed_at", time.Now())
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to complete sign-in", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		recordMagicLogin(c, claims.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This sign-in link has already been used or expired"})
		return
	}

	profile, err := findOrCreateProfileByEmail(db, claims.Email)
	if err != nil {
		releaseMagicLink(db, claims.ID)
		handleError(c, http.StatusInternalServerError, "Failed to complete sign-in", err)
		return
	}

	if err := auth.CreateSession(c, profile); err != nil {
		releaseMagicLink(db, claims.ID)
		handleError(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	recordMagicLogin(c, claims.Email, true)
	c.Redirect(http.StatusTemporaryRedirect, auth.AppBaseURL()+"/home")
}

// releaseMagicLink un-consumes a link when sign-in fails after consumption,
// so a transient profile or session error does not burn the one-time token.
func releaseMagicLink(db *gorm.DB, tokenID string) {
	if err := db.Model(&models.MagicLink{}).
		Where("token_id = ?", tokenID).
		Update("consumed_at", nil).Error; err != nil {
		log.Printf("Warning: failed to release magic link %s: %v", tokenID, err)
	}
}

// findOrCreateProfileByEmail backs passwordless sign-in, where no provider
// subject exists yet. A fresh profile gets a generated id; a later Google
// sign-in with the same email keeps the provider row instead.
func findOrCreateProfileByEmail(db *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("email = ?", email).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{
		ID:    uuid.NewString(),
		Email: email,
	}
	if err := db.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func recordMagicLogin(c *gin.Context, email string, success bool) {
	entry := models.LoginLog{
		Email:     email,
		Method:    "magic_link",
		IP:        utils.GetRealClientIP(c),
		UserAgent: c.Request.UserAgent(),
		Success:   success,
		CreatedAt: time.Now(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to record login attempt: %v", err)
	}
}

// Logout removes the session row and clears the cookie
func Logout(c *gin.Context) {
	auth.DeleteSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// GetCurrentUser returns the currently authenticated profile
func GetCurrentUser(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

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

	c.JSON(http.StatusOK, gin.H{
		"id":         profile.ID,
		"email":      profile.Email,
		"full_name":  profile.FullName,
		"avatar_url": profile.AvatarURL,
	})
}
