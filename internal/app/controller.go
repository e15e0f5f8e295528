// Package app holds the client-side state of the violation logger and the
// operations that move it: submitting links, querying and exporting a date
// range, and keeping the download audit log current.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/axellelanca/itrules/internal/client"
	"github.com/axellelanca/itrules/internal/codec"
	"github.com/axellelanca/itrules/internal/download"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/platform"
	"github.com/axellelanca/itrules/internal/status"
	"github.com/sirupsen/logrus"
)

const (
	msgFetchRange    = "Please select both From and To dates."
	msgExportRange   = "Please select From and To dates for export."
	msgLogRange      = "Please choose date range to log."
	msgExportSuccess = "File downloaded successfully"
	msgGenericFail   = "Failed"
	defaultUser      = "unknown"
)

// API is the subset of the remote service the controller depends on.
type API interface {
	AddLink(ctx context.Context, req client.AddLinkRequest) (string, error)
	GetLinks(ctx context.Context, from, to string) ([]client.ViolationRecord, error)
	GetLogs(ctx context.Context) ([]client.DownloadLogEntry, error)
	LogDownload(ctx context.Context, req client.LogDownloadRequest) (string, error)
	Export(ctx context.Context, from, to string, fileType codec.FileType) ([]byte, error)
}

// Controller owns the State and is the only thing that mutates it.
// Each operation converts its own failure into an error status message.
type Controller struct {
	mu    sync.Mutex
	state State

	// logsGen fences the log collection: only the newest request may write it.
	logsGen uint64

	api        API
	downloader download.Downloader
	notifier   *status.Notifier
	loc        *time.Location
	logger     logrus.FieldLogger
}

// Options configures a Controller.
type Options struct {
	Location *time.Location
	Logger   logrus.FieldLogger
}

// NewController returns a Controller in the add view.
func NewController(api API, downloader download.Downloader, notifier *status.Notifier, opts Options) *Controller {
	if notifier == nil {
		notifier = status.NewNotifier(status.DefaultTTL)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Controller{
		state: State{
			View:    ViewAdd,
			Records: []client.ViolationRecord{},
			Logs:    []client.DownloadLogEntry{},
		},
		api:        api,
		downloader: downloader,
		notifier:   notifier,
		loc:        opts.Location,
		logger:     opts.Logger,
	}
}

// Start performs the work done once when the application opens.
func (c *Controller) Start(ctx context.Context) {
	c.LoadLogs(ctx)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	s := c.state
	s.Records = append([]client.ViolationRecord(nil), c.state.Records...)
	s.Logs = append([]client.DownloadLogEntry(nil), c.state.Logs...)
	c.mu.Unlock()

	if msg, ok := c.notifier.Current(); ok {
		s.Status = &msg
	}
	return s
}

// Navigate switches to v unconditionally.
func (c *Controller) Navigate(v View) {
	c.mu.Lock()
	c.state.View = v
	c.mu.Unlock()
}

// SetURL updates the URL field and re-detects its platform.
func (c *Controller) SetURL(url string) {
	c.mu.Lock()
	c.state.URL = url
	c.state.Platform = platform.Detect(url)
	c.mu.Unlock()
}

func (c *Controller) SetComments(comments string) {
	c.mu.Lock()
	c.state.Comments = comments
	c.mu.Unlock()
}

// SetRange sets the raw From/To values.
func (c *Controller) SetRange(from, to string) {
	c.mu.Lock()
	c.state.Range.From = from
	c.state.Range.To = to
	c.mu.Unlock()
}

func (c *Controller) SetDownloadCount(count string) {
	c.mu.Lock()
	c.state.DownloadCount = count
	c.mu.Unlock()
}

func (c *Controller) SetDownloadUser(user string) {
	c.mu.Lock()
	c.state.DownloadUser = user
	c.mu.Unlock()
}

// AddLink submits the add form. An empty URL is refused before any request.
func (c *Controller) AddLink(ctx context.Context) error {
	c.mu.Lock()
	url := strings.TrimSpace(c.state.URL)
	comments := c.state.Comments
	if url == "" {
		c.mu.Unlock()
		return customerrors.ErrEmptyURL
	}
	if c.state.Adding {
		c.mu.Unlock()
		return customerrors.ErrBusy
	}
	c.state.Adding = true
	c.mu.Unlock()

	defer c.setFlag(func(s *State) { s.Adding = false })

	msg, err := c.api.AddLink(ctx, client.AddLinkRequest{URL: url, Comments: comments})
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Warn("add link failed")
		c.notifier.Error(errorText(err))
		return err
	}

	c.mu.Lock()
	c.state.URL = ""
	c.state.Comments = ""
	c.state.Platform = platform.None
	c.mu.Unlock()

	c.notifier.Success(msg)
	return nil
}

// FetchRecords runs the range query. On success the record collection is
// replaced and the records view becomes active; on failure both are kept.
func (c *Controller) FetchRecords(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Fetching {
		c.mu.Unlock()
		return customerrors.ErrBusy
	}
	resolved, err := c.state.Range.Resolve(c.loc)
	if err == nil {
		c.state.Fetching = true
	}
	c.mu.Unlock()

	if err != nil {
		c.notifier.Error(rangeText(err, msgFetchRange))
		return err
	}
	defer c.setFlag(func(s *State) { s.Fetching = false })

	records, err := c.api.GetLinks(ctx, resolved.FromISO, resolved.ToISO)
	if err != nil {
		c.logger.WithError(err).Warn("range query failed")
		c.notifier.Error(errorText(err))
		return err
	}
	if records == nil {
		records = []client.ViolationRecord{}
	}

	c.mu.Lock()
	c.state.Records = records
	c.state.View = ViewRecords
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("Fetched %d records", len(records)))
	return nil
}

// Export renders the current range as fileType and hands the file to the
// downloader under violations_<from>_<to>.<type>, built from the raw values.
func (c *Controller) Export(ctx context.Context, fileType codec.FileType) (string, error) {
	c.mu.Lock()
	if c.state.Exporting {
		c.mu.Unlock()
		return "", customerrors.ErrBusy
	}
	resolved, err := c.state.Range.Resolve(c.loc)
	if err == nil {
		c.state.Exporting = true
	}
	c.mu.Unlock()

	if err != nil {
		c.notifier.Error(rangeText(err, msgExportRange))
		return "", err
	}
	defer c.setFlag(func(s *State) { s.Exporting = false })

	data, err := c.api.Export(ctx, resolved.FromISO, resolved.ToISO, fileType)
	if err != nil {
		c.logger.WithError(err).WithField("file_type", fileType).Warn("export failed")
		c.notifier.Error(errorText(err))
		return "", err
	}

	name := codec.ExportFilename(resolved.FromRaw, resolved.ToRaw, fileType)
	path, err := c.downloader.Save(name, fileType.MIMEType(), data)
	if err != nil {
		c.logger.WithError(err).WithField("file", name).Error("failed to save export")
		c.notifier.Error(errorText(err))
		return "", err
	}

	c.logger.WithFields(logrus.Fields{"file": path, "bytes": len(data)}).Info("report saved")
	c.notifier.Success(msgExportSuccess)
	return path, nil
}

// LogDownload records an export event for the current range, then reloads
// the audit log.
func (c *Controller) LogDownload(ctx context.Context) error {
	c.mu.Lock()
	rng := c.state.Range
	count := parseCount(c.state.DownloadCount)
	user := strings.TrimSpace(c.state.DownloadUser)
	c.mu.Unlock()

	if user == "" {
		user = defaultUser
	}

	resolved, err := rng.Resolve(c.loc)
	if err != nil {
		c.notifier.Error(rangeText(err, msgLogRange))
		return err
	}

	msg, err := c.api.LogDownload(ctx, client.LogDownloadRequest{
		FromDate: resolved.FromISO,
		ToDate:   resolved.ToISO,
		Count:    count,
		User:     user,
	})
	if err != nil {
		c.logger.WithError(err).Warn("log download failed")
		c.notifier.Error(errorText(err))
		return err
	}

	c.notifier.Success(msg)
	c.LoadLogs(ctx)
	return nil
}

// LoadLogs refreshes the audit log. Failures are logged, never shown.
// A response is dropped if a newer LoadLogs was issued meanwhile.
func (c *Controller) LoadLogs(ctx context.Context) {
	c.mu.Lock()
	c.logsGen++
	gen := c.logsGen
	c.mu.Unlock()

	logs, err := c.api.GetLogs(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to fetch logs")
		return
	}
	if logs == nil {
		logs = []client.DownloadLogEntry{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.logsGen {
		c.logger.WithField("generation", gen).Debug("discarding stale logs response")
		return
	}
	c.state.Logs = logs
}

func (c *Controller) setFlag(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
}

// parseCount reads a decimal count such as "3", "2.5" or "1e2" and drops
// any fraction. Empty, non-numeric and non-finite input counts as 0.
func parseCount(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func rangeText(err error, missing string) string {
	if errors.Is(err, customerrors.ErrMissingDateRange) {
		return missing
	}
	return errorText(err)
}

// errorText picks the server text when there is one, else the error text.
func errorText(err error) string {
	var apiErr *customerrors.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return msgGenericFail
}
