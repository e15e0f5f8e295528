// Package services contains the business logic of the reference backend
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/models"
	"github.com/axellelanca/itrules/internal/platform"
	"github.com/axellelanca/itrules/internal/repository"
)

// ViolationService manages reported links.
type ViolationService struct {
	repo repository.ViolationRepository
	now  func() time.Time
}

// NewViolationService creates a ViolationService.
func NewViolationService(repo repository.ViolationRepository) *ViolationService {
	return &ViolationService{repo: repo, now: time.Now}
}

// AddLink stores a new record for url. It returns the stored record, or
// ErrDuplicateLink together with the detected platform when the URL exists.
func (s *ViolationService) AddLink(url, comments string) (*models.ViolationRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, customerrors.ErrEmptyURL
	}
	detected := platform.Detect(url)

	if _, err := s.repo.GetViolationByURL(url); err == nil {
		return &models.ViolationRecord{URL: url, Platform: detected.String()}, customerrors.ErrDuplicateLink
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error checking url uniqueness: %w", err)
	}

	record := &models.ViolationRecord{
		URL:           url,
		Platform:      detected.String(),
		Comments:      comments,
		RuleViolation: models.DefaultRuleViolation,
		ActionStatus:  models.StatusNotTakenDown,
		Timestamp:     s.now().UTC(),
	}
	if err := s.repo.CreateViolation(record); err != nil {
		return nil, fmt.Errorf("failed to add link: %w", err)
	}
	return record, nil
}

// FindBetween returns the records stored between from and to, inclusive.
func (s *ViolationService) FindBetween(from, to time.Time) ([]models.ViolationRecord, error) {
	return s.repo.FindViolationsBetween(from, to)
}
