// Package report renders violation records as PDF or DOCX documents.
//
// Both formats carry a centred title block followed by one grid table per
// platform with the columns S.No, URL, rule, action status and comments.
// The header row is shaded and URLs are clickable links.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/axellelanca/itrules/internal/codec"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/models"
)

const (
	DefaultTitle    = "Social Media Rule Violation Report"
	DefaultSubtitle = "Actionable Report"
	dateLayout      = "02 January, 2006"
)

var columns = []string{"S.No", "URL", "Relevant Violation of IT Rules, 2021", "Action Status", "Comments"}

// Options controls the title block.
type Options struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Subtitle == "" {
		o.Subtitle = DefaultSubtitle
	}
	if o.GeneratedAt.IsZero() {
		o.GeneratedAt = time.Now()
	}
	return o
}

// Section is the block of rows for one platform.
type Section struct {
	Platform string
	Rows     [][]string
}

// Group splits records by platform, sorted by platform name, keeping the
// record order within each group. Row numbers restart at 1 per platform.
func Group(records []models.ViolationRecord) []Section {
	byPlatform := make(map[string][]models.ViolationRecord)
	for _, r := range records {
		byPlatform[r.Platform] = append(byPlatform[r.Platform], r)
	}

	names := make([]string, 0, len(byPlatform))
	for name := range byPlatform {
		names = append(names, name)
	}
	sort.Strings(names)

	sections := make([]Section, 0, len(names))
	for _, name := range names {
		sec := Section{Platform: name}
		for i, r := range byPlatform[name] {
			sec.Rows = append(sec.Rows, []string{
				fmt.Sprint(i + 1), r.URL, r.RuleViolation, r.ActionStatus, r.Comments,
			})
		}
		sections = append(sections, sec)
	}
	return sections
}

// Render produces the document bytes for fileType.
func Render(fileType codec.FileType, records []models.ViolationRecord, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	sections := Group(records)

	switch fileType {
	case codec.PDF:
		return renderPDF(sections, opts, true)
	case codec.DOCX:
		return renderDOCX(sections, opts)
	default:
		return nil, fmt.Errorf("%w: %q", customerrors.ErrUnsupportedFileType, fileType)
	}
}
