package services

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cardpay_api/internal/models"
)

// InitDB initializes the audit database connection with connection pooling
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Audit database connection established")
	return db, nil
}

// AutoMigrate runs database migrations for the audit models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running audit database migrations...")

	err := db.AutoMigrate(
		&models.WebhookEventLog{},
	)
	if err != nil {
		return err
	}

	log.Println("Audit database migrations completed")
	return nil
}
