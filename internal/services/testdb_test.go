package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amirsaid123/UY-Bor/internal/config"
	"github.com/amirsaid123/UY-Bor/internal/db"
	"github.com/amirsaid123/UY-Bor/internal/models"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// MaxOpenConns is pinned to 1 so every query sees the same :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func newTestConfig() *config.Config {
	return &config.Config{
		JwtSecret:           "test-secret",
		JwtAccessTTL:        time.Hour,
		JwtRefreshTTL:       24 * time.Hour,
		VerificationCodeTTL: 10 * time.Minute,
		ContentCacheTTL:     time.Minute,
		AppName:             "UY-Bor",
	}
}

func createTestUser(t *testing.T, gdb *gorm.DB, phone string) *models.User {
	t.Helper()
	user := &models.User{PhoneNumber: phone}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, gdb *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, gdb.Create(category).Error)
	return category
}

func createTestProperty(t *testing.T, gdb *gorm.DB, userID, categoryID uint, mutate ...func(*models.Property)) *models.Property {
	t.Helper()
	property := &models.Property{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      "Two-room flat",
		Address:    "Tashkent, Chilonzor",
		Price:      50000,
		Rooms:      2,
		Area:       54,
		Floor:      3,
		Type:       models.TypeSale,
		Status:     models.StatusActive,
	}
	for _, m := range mutate {
		m(property)
	}
	require.NoError(t, gdb.Create(property).Error)
	return property
}
