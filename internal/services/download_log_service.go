package services

import (
	"strings"
	"time"

	"github.com/axellelanca/itrules/internal/models"
	"github.com/axellelanca/itrules/internal/repository"
)

// DownloadLogService records and lists export audit entries.
type DownloadLogService struct {
	repo repository.DownloadLogRepository
	now  func() time.Time
}

// NewDownloadLogService creates a DownloadLogService.
func NewDownloadLogService(repo repository.DownloadLogRepository) *DownloadLogService {
	return &DownloadLogService{repo: repo, now: time.Now}
}

// Log stores one entry stamped with the current time.
func (s *DownloadLogService) Log(from, to string, count int, user string) (*models.DownloadLog, error) {
	entry := &models.DownloadLog{
		FromDate:  from,
		ToDate:    to,
		Count:     count,
		User:      strings.TrimSpace(user),
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.CreateDownloadLog(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns every entry, newest first.
func (s *DownloadLogService) List() ([]models.DownloadLog, error) {
	return s.repo.ListDownloadLogs()
}
