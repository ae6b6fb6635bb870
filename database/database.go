package database

import (
	"fmt"
	"time"

	"storefront-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Product{},
		&models.Event{},
		&models.EventProduct{},
		&models.Advertisement{},
		&models.CartItem{},
	}
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	// Ad positions are looked up per kind on every placement.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_advertisements_kind_position ON advertisements (kind, position)`).Error; err != nil {
		return fmt.Errorf("failed to create advertisement position index: %w", err)
	}

	return nil
}
