package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"memberhub_backend/internal/config"
	"memberhub_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm opens (or returns the cached) GORM connection using the
// configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model. uuid_generate_v4 defaults require the
// uuid-ossp extension, created here when missing.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&models.UserProfile{},
		&models.RefreshToken{},
		&models.NotificationTemplate{},
		&models.NotificationLog{},
		&models.SubscriptionRequest{},
		&models.Payment{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.AdminSetting{},
		&models.Upload{},
	)
}
