package repository

import (
	"fmt"

	"github.com/axellelanca/itrules/internal/models"
	"gorm.io/gorm"
)

// DownloadLogRepository defines data access for export audit entries
type DownloadLogRepository interface {
	CreateDownloadLog(entry *models.DownloadLog) error
	ListDownloadLogs() ([]models.DownloadLog, error)
}

// GormDownloadLogRepository implements DownloadLogRepository with GORM.
type GormDownloadLogRepository struct {
	db *gorm.DB
}

// NewDownloadLogRepository creates a GormDownloadLogRepository.
func NewDownloadLogRepository(db *gorm.DB) *GormDownloadLogRepository {
	return &GormDownloadLogRepository{db: db}
}

// CreateDownloadLog inserts an audit entry.
func (r *GormDownloadLogRepository) CreateDownloadLog(entry *models.DownloadLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create download log: %w", err)
	}
	return nil
}

// ListDownloadLogs returns every entry, newest first.
func (r *GormDownloadLogRepository) ListDownloadLogs() ([]models.DownloadLog, error) {
	var entries []models.DownloadLog
	if err := r.db.Order("timestamp desc").Order("id desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list download logs: %w", err)
	}
	return entries, nil
}
