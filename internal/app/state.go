package app

import (
	"fmt"
	"strings"

	"github.com/axellelanca/itrules/internal/client"
	"github.com/axellelanca/itrules/internal/daterange"
	"github.com/axellelanca/itrules/internal/platform"
	"github.com/axellelanca/itrules/internal/status"
)

// View is the screen the operator is on. Exactly one is active.
type View string

const (
	ViewAdd     View = "add"
	ViewRecords View = "view"
	ViewExport  View = "export"
	ViewLogs    View = "logs"
)

// Views lists every view in navigation order.
var Views = []View{ViewAdd, ViewRecords, ViewExport, ViewLogs}

// ParseView validates a navigation target.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// State is a snapshot of everything the operator sees.
type State struct {
	View View

	// Add form
	URL      string
	Comments string
	Platform platform.Platform

	// Range shared by fetch, export and log-download
	Range daterange.DateRange

	// Log-download form; DownloadCount is kept as typed
	DownloadCount string
	DownloadUser  string

	Records []client.ViolationRecord
	Logs    []client.DownloadLogEntry

	Status    *status.Message
	Adding    bool
	Fetching  bool
	Exporting bool
}
