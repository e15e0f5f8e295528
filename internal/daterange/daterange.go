// Package daterange resolves the From/To fields of a query into UTC instants.
package daterange

import (
	"strings"
	"time"

	customerrors "github.com/axellelanca/itrules/internal/errors"
)

// ISOLayout matches the millisecond UTC form produced by browsers' toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// LocalLayout is the value format of an HTML datetime-local input.
const LocalLayout = "2006-01-02T15:04"

var localLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateRange holds the raw field values as typed by the operator.
type DateRange struct {
	From string
	To   string
}

// Resolved carries both the raw values and the UTC instants sent on the wire.
type Resolved struct {
	FromRaw string
	ToRaw   string
	FromISO string
	ToISO   string
}

// IsSet reports whether both endpoints are non-empty.
func (r DateRange) IsSet() bool {
	return strings.TrimSpace(r.From) != "" && strings.TrimSpace(r.To) != ""
}

// Resolve validates both endpoints and converts them to ISO-8601 UTC.
// Values without an offset are read in loc.
func (r DateRange) Resolve(loc *time.Location) (Resolved, error) {
	if !r.IsSet() {
		return Resolved{}, customerrors.ErrMissingDateRange
	}
	from, err := ToISO(r.From, loc)
	if err != nil {
		return Resolved{}, customerrors.ErrInvalidDateValue{Field: "from", Value: r.From}
	}
	to, err := ToISO(r.To, loc)
	if err != nil {
		return Resolved{}, customerrors.ErrInvalidDateValue{Field: "to", Value: r.To}
	}
	return Resolved{FromRaw: r.From, ToRaw: r.To, FromISO: from, ToISO: to}, nil
}

// ToISO parses a local date-time (or RFC 3339 value) and formats it in UTC.
func ToISO(val string, loc *time.Location) (string, error) {
	t, err := Parse(val, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(ISOLayout), nil
}

// Parse accepts RFC 3339 and the datetime-local layouts.
func Parse(val string, loc *time.Location) (time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, customerrors.ErrInvalidDate
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, val, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, customerrors.ErrInvalidDate
}
