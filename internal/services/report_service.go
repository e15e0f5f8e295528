package services

import (
	"time"

	"github.com/axellelanca/itrules/internal/codec"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/report"
	"github.com/axellelanca/itrules/internal/repository"
)

// ReportService renders a date range of records into a document.
type ReportService struct {
	repo repository.ViolationRepository
	opts report.Options
	now  func() time.Time
}

// NewReportService creates a ReportService; opts sets the title block.
func NewReportService(repo repository.ViolationRepository, opts report.Options) *ReportService {
	return &ReportService{repo: repo, opts: opts, now: time.Now}
}

// Export returns the rendered document as a Latin-1 string, the form the
// export endpoint ships inside JSON. An empty range is ErrNoRecords.
func (s *ReportService) Export(from, to time.Time, fileType codec.FileType) (string, error) {
	records, err := s.repo.FindViolationsBetween(from, to)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", customerrors.ErrNoRecords
	}

	opts := s.opts
	opts.GeneratedAt = s.now()
	data, err := report.Render(fileType, records, opts)
	if err != nil {
		return "", err
	}
	return codec.EncodeLatin1(data), nil
}
