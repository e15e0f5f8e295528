// Package metrics exposes Prometheus counters for the reference backend.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the handlers and the monitor report to.
type Recorder interface {
	RecordLinkAdded(platform string)
	RecordDuplicateLink()
	RecordExport(fileType, outcome string)
	RecordDownloadLogged()
	RecordStatusChange(actionStatus string)
	RecordHTTPStatus(route string, statusCode int)
}

// Collector implements Recorder on Prometheus counters.
type Collector struct {
	linksAdded     *prometheus.CounterVec
	duplicateLinks prometheus.Counter
	exports        *prometheus.CounterVec
	downloadLogs   prometheus.Counter
	statusChanges  *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		linksAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itrules_links_added_total",
			Help: "Links stored, by detected platform",
		}, []string{"platform"}),
		duplicateLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "itrules_duplicate_links_total",
			Help: "Add requests rejected because the URL was already stored",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itrules_exports_total",
			Help: "Report exports, by file type and outcome",
		}, []string{"file_type", "outcome"}),
		downloadLogs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "itrules_download_logs_total",
			Help: "Download audit entries saved",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itrules_action_status_changes_total",
			Help: "Action status updates made by the URL monitor",
		}, []string{"action_status"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itrules_http_responses_total",
			Help: "HTTP responses by route and status code",
		}, []string{"route", "status_code"}),
	}

	reg.MustRegister(
		c.linksAdded,
		c.duplicateLinks,
		c.exports,
		c.downloadLogs,
		c.statusChanges,
		c.httpStatus,
	)
	return c
}

func (c *Collector) RecordLinkAdded(platform string) {
	c.linksAdded.WithLabelValues(platform).Inc()
}

func (c *Collector) RecordDuplicateLink() {
	c.duplicateLinks.Inc()
}

func (c *Collector) RecordExport(fileType, outcome string) {
	c.exports.WithLabelValues(fileType, outcome).Inc()
}

func (c *Collector) RecordDownloadLogged() {
	c.downloadLogs.Inc()
}

func (c *Collector) RecordStatusChange(actionStatus string) {
	c.statusChanges.WithLabelValues(actionStatus).Inc()
}

func (c *Collector) RecordHTTPStatus(route string, statusCode int) {
	c.httpStatus.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordLinkAdded(string) {
}

func (Nop) RecordDuplicateLink() {
}

func (Nop) RecordExport(string, string) {
}

func (Nop) RecordDownloadLogged() {
}

func (Nop) RecordStatusChange(string) {
}

func (Nop) RecordHTTPStatus(string, int) {
}
