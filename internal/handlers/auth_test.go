package handlers

import (
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthDB(t *testing.T, tables ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(tables...))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func issueMagicLink(t *testing.T, db *gorm.DB, email string) string {
	token, jti, err := auth.GenerateMagicToken(email)
	require.NoError(t, err)

	link := models.MagicLink{
		TokenID:   jti,
		Email:     email,
		ExpiresAt: time.Now().Add(models.MagicLinkDuration),
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&link).Error)
	return token
}

func performVerify(token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/magic?token="+url.QueryEscape(token), nil)
	VerifyMagicLink(c)
	return w
}

func TestVerifyMagicLinkSingleUse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupAuthDB(t, &models.Profile{}, &models.Session{}, &models.MagicLink{}, &models.LoginLog{})

	token := issueMagicLink(t, db, "pat@example.com")

	w := performVerify(token)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	var link models.MagicLink
	require.NoError(t, db.Where("email = ?", "pat@example.com").First(&link).Error)
	assert.True(t, link.IsConsumed())

	var profile models.Profile
	require.NoError(t, db.Where("email = ?", "pat@example.com").First(&profile).Error)

	var sessions int64
	require.NoError(t, db.Model(&models.Session{}).Where("profile_id = ?", profile.ID).Count(&sessions).Error)
	assert.Equal(t, int64(1), sessions)

	// The same link rejects a second use
	w = performVerify(token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyMagicLinkSurvivesSignInFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	// No profiles table, so the profile step fails after the link is consumed
	db := setupAuthDB(t, &models.MagicLink{}, &models.LoginLog{})

	token := issueMagicLink(t, db, "kim@example.com")

	w := performVerify(token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The one-time link is released, not burned
	var link models.MagicLink
	require.NoError(t, db.Where("email = ?", "kim@example.com").First(&link).Error)
	assert.False(t, link.IsConsumed())

	// Once the store recovers, the same link still signs the user in
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Session{}))
	w = performVerify(token)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
}
