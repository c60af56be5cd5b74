package database

import (
	"fmt"

	"smsburst-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres pool. The handle is returned, not stored in a
// package global; callers inject it into the components that need it.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ApiKey{},
		&models.CreditTransaction{},
		&models.Campaign{},
		&models.BlacklistEntry{},
		&models.BlockedNumber{},
		&models.TrustedDevice{},
		&models.LoginIP{},
		&models.Job{},
		&models.IdempotencyKey{},
	)
}
