package repository

import (
	"fmt"

	"github.com/axellelanca/itrules/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database at name.
func Open(name string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ViolationRecord{}, &models.DownloadLog{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
