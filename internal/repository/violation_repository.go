package repository

import (
	"fmt"
	"time"

	"github.com/axellelanca/itrules/internal/models"
	"gorm.io/gorm"
)

// ViolationRepository defines data access for reported links
type ViolationRepository interface {
	CreateViolation(record *models.ViolationRecord) error
	GetViolationByURL(url string) (*models.ViolationRecord, error)
	FindViolationsBetween(from, to time.Time) ([]models.ViolationRecord, error)
	GetAllViolations() ([]models.ViolationRecord, error)
	UpdateActionStatus(id uint, actionStatus string) error
}

// GormViolationRepository implements ViolationRepository with GORM.
type GormViolationRepository struct {
	db *gorm.DB
}

// NewViolationRepository creates a GormViolationRepository.
func NewViolationRepository(db *gorm.DB) *GormViolationRepository {
	return &GormViolationRepository{db: db}
}

// CreateViolation inserts a new record.
func (r *GormViolationRepository) CreateViolation(record *models.ViolationRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create violation record: %w", err)
	}
	return nil
}

// GetViolationByURL returns gorm.ErrRecordNotFound when the URL is unknown.
func (r *GormViolationRepository) GetViolationByURL(url string) (*models.ViolationRecord, error) {
	var record models.ViolationRecord
	if err := r.db.Where("url = ?", url).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindViolationsBetween returns records with from <= timestamp <= to, oldest first.
func (r *GormViolationRepository) FindViolationsBetween(from, to time.Time) ([]models.ViolationRecord, error) {
	var records []models.ViolationRecord
	err := r.db.Where("timestamp >= ? AND timestamp <= ?", from.UTC(), to.UTC()).
		Order("timestamp asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query violations between %s and %s: %w", from, to, err)
	}
	return records, nil
}

// GetAllViolations returns every record.
func (r *GormViolationRepository) GetAllViolations() ([]models.ViolationRecord, error) {
	var records []models.ViolationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all violations: %w", err)
	}
	return records, nil
}

// UpdateActionStatus sets the action status of one record.
func (r *GormViolationRepository) UpdateActionStatus(id uint, actionStatus string) error {
	err := r.db.Model(&models.ViolationRecord{}).Where("id = ?", id).Update("action_status", actionStatus).Error
	if err != nil {
		return fmt.Errorf("failed to update action status for record %d: %w", id, err)
	}
	return nil
}
