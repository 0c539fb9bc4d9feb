package auth

import (
	"kyndra/internal/database"
	"kyndra/internal/models"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProfileDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func TestUpsertProfileKeepsRowCreatedByMagicLink(t *testing.T) {
	db := setupProfileDB(t)

	// Passwordless sign-in created this row with a generated id
	existing := models.Profile{ID: "generated-uuid-1", Email: "pat@example.com"}
	require.NoError(t, db.Create(&existing).Error)

	userInfo := &UserInfo{
		Sub:     "google-sub-123",
		Email:   "pat@example.com",
		Name:    "Pat Example",
		Picture: "https://example.com/p.png",
	}
	profile, err := UpsertProfileFromUserInfo(userInfo, map[string]interface{}{"email": "pat@example.com"})
	require.NoError(t, err)

	// The magic-link row survives; Google identity is folded into it
	assert.Equal(t, "generated-uuid-1", profile.ID)
	assert.Equal(t, "google-sub-123", profile.GoogleID)
	assert.Equal(t, "Pat Example", profile.FullName)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Profile
	require.NoError(t, db.Where("email = ?", "pat@example.com").First(&stored).Error)
	assert.Equal(t, "generated-uuid-1", stored.ID)
	assert.Equal(t, "google-sub-123", stored.GoogleID)
}

func TestUpsertProfileCreatesRowForNewIdentity(t *testing.T) {
	db := setupProfileDB(t)

	userInfo := &UserInfo{
		Sub:   "google-sub-456",
		Email: "kim@example.com",
		Name:  "Kim Example",
	}
	profile, err := UpsertProfileFromUserInfo(userInfo, nil)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-456", profile.ID)

	var stored models.Profile
	require.NoError(t, db.Where("id = ?", "google-sub-456").First(&stored).Error)
	assert.Equal(t, "kim@example.com", stored.Email)
}
