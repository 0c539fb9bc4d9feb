package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"kyndra/internal/utils"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	googleOAuthConfig *oauth2.Config
)

// InitOAuth initializes the Google OAuth configuration
func InitOAuth() error {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REDIRECT_URL must be set")
	}

	googleOAuthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile", "openid"},
		Endpoint:     google.Endpoint,
	}

	return nil
}

// GetLoginURL returns the Google OAuth login URL with a secure state parameter
func GetLoginURL(c *gin.Context) (string, error) {
	state, err := SetOAuthState(c)
	if err != nil {
		return "", err
	}

	return googleOAuthConfig.AuthCodeURL(state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	), nil
}

// HandleGoogleCallback processes the OAuth callback from Google: it exchanges
// the code, verifies the ID token, upserts the profile row and starts a
// session.
func HandleGoogleCallback(c *gin.Context) {
	state := c.Query("state")
	if !VerifyOAuthState(c, state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state, possible CSRF attack"})
		c.Abort()
		return
	}

	code := c.Query("code")
	token, err := googleOAuthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		recordLogin(c, "", "google", false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code exchange failed"})
		c.Abort()
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get id_token"})
		c.Abort()
		return
	}

	payload, err := verifyIDToken(c.Request.Context(), rawIDToken, googleOAuthConfig.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to verify id_token: %v", err)})
		c.Abort()
		return
	}

	userInfo, err := extractUserInfoFromPayload(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract user info from token"})
		c.Abort()
		return
	}

	profile, err := UpsertProfileFromUserInfo(userInfo, payload.Claims)
	if err != nil {
		log.Printf("Error: Failed to upsert profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		c.Abort()
		return
	}

	if err := CreateSession(c, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		c.Abort()
		return
	}

	recordLogin(c, profile.Email, "google", true)
	c.Redirect(http.StatusTemporaryRedirect, AppBaseURL()+"/home")
}

// UpsertProfileFromUserInfo creates or refreshes the profile row for a
// verified identity. Profiles are keyed by email across sign-in methods: a
// row first created through a magic link carries a generated id, and a later
// Google sign-in must keep that row rather than insert a second one with the
// provider subject. Name, avatar and the raw claims are overwritten on every
// sign-in.
func UpsertProfileFromUserInfo(userInfo *UserInfo, claims map[string]interface{}) (*models.Profile, error) {
	metadata := datatypes.JSON("{}")
	if claims != nil {
		if raw, err := json.Marshal(claims); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	db := database.GetDB()

	var existing models.Profile
	err := db.Where("email = ?", userInfo.Email).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"full_name":  userInfo.Name,
			"avatar_url": userInfo.Picture,
			"google_id":  userInfo.Sub,
			"metadata":   metadata,
			"updated_at": time.Now(),
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.FullName = userInfo.Name
		existing.AvatarURL = userInfo.Picture
		existing.GoogleID = userInfo.Sub
		existing.Metadata = metadata
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	profile := models.Profile{
		ID:        userInfo.Sub,
		Email:     userInfo.Email,
		FullName:  userInfo.Name,
		AvatarURL: userInfo.Picture,
		GoogleID:  userInfo.Sub,
		Metadata:  metadata,
	}

	// Conflict on id covers a re-sign-in race where the same subject was
	// inserted between the lookup and the create.
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "full_name", "avatar_url", "google_id", "metadata", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// AppBaseURL is where browser-facing redirects land after auth flows
func AppBaseURL() string {
	if base := os.Getenv("APP_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000"
}

// recordLogin writes a login audit row; failures are logged, never surfaced
func recordLogin(c *gin.Context, email, method string, success bool) {
	db := database.GetDB()
	entry := models.LoginLog{
		Email:     email,
		Method:    method,
		IP:        utils.GetRealClientIP(c),
		UserAgent: c.Request.UserAgent(),
		Success:   success,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Warning: Failed to record login attempt: %v", err)
	}
}

// verifyIDToken verifies the ID token using Google's official library
func verifyIDToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(ctx, idToken, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to validate ID token: %w", err)
	}
	return payload, nil
}

// extractUserInfoFromPayload extracts user info from the verified token payload
func extractUserInfoFromPayload(payload *idtoken.Payload) (*UserInfo, error) {
	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("id_token payload is missing an email claim")
	}

	userInfo := &UserInfo{
		Sub:   payload.Subject,
		Email: email,
	}

	if name, ok := payload.Claims["name"].(string); ok {
		userInfo.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		userInfo.Picture = picture
	}
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok {
		userInfo.EmailVerified = emailVerified
	}

	return userInfo, nil
}
