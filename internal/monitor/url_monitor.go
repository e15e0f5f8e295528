package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/metrics"
	"github.com/axellelanca/itrules/internal/models"
	"github.com/axellelanca/itrules/internal/repository"
	"github.com/doyensec/safeurl"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultChecksPerSecond caps how fast the monitor checks stored links.
const DefaultChecksPerSecond = 2

// UrlMonitor periodically checks whether reported links still resolve and
// records the result in their action status.
type UrlMonitor struct {
	repo        repository.ViolationRepository
	interval    time.Duration
	knownStates map[uint]bool // record ID -> accessible on the last check
	mu          sync.Mutex
	httpClient  *http.Client
	limiter     *rate.Limiter
	metrics     metrics.Recorder
	logger      logrus.FieldLogger
}

// NewUrlMonitor creates a monitor checking every interval. Stored URLs are
// user input, so the default client refuses private, loopback and
// link-local targets.
func NewUrlMonitor(repo repository.ViolationRepository, interval time.Duration, logger logrus.FieldLogger) *UrlMonitor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UrlMonitor{
		repo:        repo,
		interval:    interval,
		knownStates: make(map[uint]bool),
		httpClient:  newSafeClient(10 * time.Second),
		limiter:     rate.NewLimiter(rate.Limit(DefaultChecksPerSecond), 1),
		metrics:     metrics.Nop{},
		logger:      logger.WithField("component", "monitor"),
	}
}

func newSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}

// WithHTTPClient replaces the client used for the link checks.
func (m *UrlMonitor) WithHTTPClient(c *http.Client) *UrlMonitor {
	m.httpClient = c
	return m
}

// WithRate sets how many checks run per second; zero or less removes the cap.
func (m *UrlMonitor) WithRate(perSecond float64) *UrlMonitor {
	if perSecond <= 0 {
		m.limiter = rate.NewLimiter(rate.Inf, 1)
	} else {
		m.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return m
}

// WithMetrics reports status updates to rec.
func (m *UrlMonitor) WithMetrics(rec metrics.Recorder) *UrlMonitor {
	if rec != nil {
		m.metrics = rec
	}
	return m
}

// Start runs one check immediately and then one per interval until ctx is
// cancelled.
func (m *UrlMonitor) Start(ctx context.Context) {
	m.logger.WithField("interval", m.interval).Info("starting URL monitor")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckUrls(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("URL monitor stopped")
			return
		case <-ticker.C:
			m.CheckUrls(ctx)
		}
	}
}

// CheckUrls checks every record once. A link is marked Taken Down only when
// the host answers 404 or 410 or its name no longer resolves; one that answers
// 2xx or 3xx again is marked Not Taken Down. Any other outcome leaves the
// stored status alone.
func (m *UrlMonitor) CheckUrls(ctx context.Context) {
	records, err := m.repo.GetAllViolations()
	if err != nil {
		m.logger.WithError(err).Error("failed to retrieve records for monitoring")
		return
	}

	for _, rec := range records {
		if err := m.limiter.Wait(ctx); err != nil {
			return
		}
		state, err := m.checkURL(ctx, rec.URL)
		entry := m.logger.WithFields(logrus.Fields{"url": rec.URL, "state": state.String()})
		if state == linkUnknown {
			entry.WithError(err).Debug("URL check inconclusive")
			continue
		}
		accessible := state == linkAlive

		m.mu.Lock()
		previous, seen := m.knownStates[rec.ID]
		m.knownStates[rec.ID] = accessible
		m.mu.Unlock()

		if seen && previous != accessible {
			entry = entry.WithField("previous", formatState(previous))
			entry.Info("link state changed")
		} else if !seen {
			entry.Debug("initial link state")
		}

		want := desiredStatus(accessible)
		if rec.ActionStatus == want {
			continue
		}
		if err := m.repo.UpdateActionStatus(rec.ID, want); err != nil {
			entry.WithError(err).Error("failed to update action status")
			continue
		}
		m.metrics.RecordStatusChange(want)
		entry.WithField("action_status", want).Info("action status updated")
	}
}

func desiredStatus(accessible bool) string {
	if accessible {
		return models.StatusNotTakenDown
	}
	return models.StatusTakenDown
}

// linkState is the outcome of one URL check.
type linkState int

const (
	linkUnknown linkState = iota
	linkAlive
	linkGone
)

func (s linkState) String() string {
	switch s {
	case linkAlive:
		return formatState(true)
	case linkGone:
		return formatState(false)
	default:
		return "UNKNOWN"
	}
}

// checkURL sends a HEAD request, falling back to GET when the host refuses
// HEAD with 405. The error carries the reason for anything but linkAlive.
func (m *UrlMonitor) checkURL(ctx context.Context, url string) (linkState, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := m.request(ctx, http.MethodHead, url)
	if err == nil && code == http.StatusMethodNotAllowed {
		code, err = m.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return linkGone, customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
		}
		return linkUnknown, customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}

	switch {
	case code >= 200 && code < 400:
		return linkAlive, nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return linkGone, customerrors.ErrURLCheckFailed{URL: url, Reason: statusReason(code)}
	default:
		return linkUnknown, customerrors.ErrURLCheckFailed{URL: url, Reason: statusReason(code)}
	}
}

func (m *UrlMonitor) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func statusReason(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
