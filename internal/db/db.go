package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amirsaid123/UY-Bor/internal/models"
)

// Connect opens the Postgres connection and runs migrations.
func Connect(databaseURL string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Println("Connected to Postgres and ran migrations")
	return gdb, nil
}

// Migrate runs AutoMigrate for the full schema. Shared with tests, which run
// it against an in-memory sqlite database instead of Postgres.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.Country{},
		&models.Region{},
		&models.City{},
		&models.District{},
		&models.Metro{},
		&models.Category{},
		&models.Amenity{},
		&models.User{},
		&models.Property{},
		&models.Image{},
		&models.Wishlist{},
		&models.Message{},
		&models.PhoneVerification{},
		&models.Transaction{},
		&models.Tariff{},
		&models.Blog{},
		&models.Video{},
		&models.StaticPage{},
		&models.ResidentialComplex{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Disconnect closes the underlying sql.DB connection pool.
func Disconnect(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
