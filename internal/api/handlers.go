package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/axellelanca/itrules/internal/codec"
	"github.com/axellelanca/itrules/internal/daterange"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/metrics"
	"github.com/axellelanca/itrules/internal/models"
	"github.com/axellelanca/itrules/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// Handlers bundles the services the routes depend on.
type Handlers struct {
	Violations *services.ViolationService
	Logs       *services.DownloadLogService
	Reports    *services.ReportService

	// Location interprets dates sent without an offset
	Location *time.Location
	Logger   logrus.FieldLogger

	Metrics metrics.Recorder
	// MetricsHandler, when set, is served on GET /metrics
	MetricsHandler http.Handler
}

// SetupRoutes registers every endpoint on router.
func SetupRoutes(router *gin.Engine, h *Handlers) {
	if h.Location == nil {
		h.Location = time.UTC
	}
	if h.Logger == nil {
		h.Logger = logrus.StandardLogger()
	}
	if h.Metrics == nil {
		h.Metrics = metrics.Nop{}
	}

	router.Use(requestLogger(h.Logger, h.Metrics), corsMiddleware())
	if h.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(h.MetricsHandler))
	}

	router.GET("/", HealthCheckHandler)
	router.POST("/add_link/", h.AddLink)
	router.GET("/get_links/", h.GetLinks)
	router.POST("/log_download/", h.LogDownload)
	router.GET("/get_logs/", h.GetLogs)
	router.GET("/export/", h.Export)
}

// corsMiddleware allows any origin; the service has no auth boundary.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger tags each request with an ID, echoing the caller's
// X-Request-ID when present, and logs it once answered.
func requestLogger(logger logrus.FieldLogger, rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTPStatus(route, c.Writer.Status())
		logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
		}).Debug("request handled")
	}
}

// HealthCheckHandler answers on / so operators can check the service is up.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "IT Rules Logger API is running"})
}

// AddLinkRequest is the JSON body of POST /add_link/.
type AddLinkRequest struct {
	URL      string  `json:"url" binding:"required"`
	Comments *string `json:"comments"`
}

// AddLink stores a new link; an existing URL answers 409.
func (h *Handlers) AddLink(c *gin.Context) {
	var req AddLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	comments := ""
	if req.Comments != nil {
		comments = *req.Comments
	}

	record, err := h.Violations.AddLink(req.URL, comments)
	switch {
	case errors.Is(err, customerrors.ErrDuplicateLink):
		h.Metrics.RecordDuplicateLink()
		c.JSON(http.StatusConflict, gin.H{"message": err.Error(), "platform": record.Platform})
		return
	case errors.Is(err, customerrors.ErrEmptyURL):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.Logger.WithError(err).WithField("url", req.URL).Error("failed to add link")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add link"})
		return
	}

	h.Metrics.RecordLinkAdded(record.Platform)
	h.Logger.WithFields(logrus.Fields{"url": record.URL, "platform": record.Platform}).Info("link added")
	c.JSON(http.StatusOK, gin.H{"message": "Link added successfully", "platform": record.Platform})
}

// GetLinks returns the records of a range. Date errors are reported in the
// body with status 200, which clients must check.
func (h *Handlers) GetLinks(c *gin.Context) {
	from, to, err := h.parseRange(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}

	records, err := h.Violations.FindBetween(from, to)
	if err != nil {
		h.Logger.WithError(err).Error("range query failed")
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []models.ViolationRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// LogDownloadRequest is the JSON body of POST /log_download/.
type LogDownloadRequest struct {
	FromDate string `json:"from_date" binding:"required"`
	ToDate   string `json:"to_date" binding:"required"`
	Count    *int   `json:"count" binding:"required"`
	User     string `json:"user" binding:"required"`
}

// LogDownload stores an export audit entry.
func (h *Handlers) LogDownload(c *gin.Context) {
	var req LogDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if _, err := h.Logs.Log(req.FromDate, req.ToDate, *req.Count, req.User); err != nil {
		h.Logger.WithError(err).Error("failed to save download log")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save download log"})
		return
	}
	h.Metrics.RecordDownloadLogged()
	c.JSON(http.StatusOK, gin.H{"message": "Download log saved."})
}

// GetLogs lists audit entries, newest first.
func (h *Handlers) GetLogs(c *gin.Context) {
	logs, err := h.Logs.List()
	if err != nil {
		h.Logger.WithError(err).Error("failed to list download logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list download logs"})
		return
	}
	if logs == nil {
		logs = []models.DownloadLog{}
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// Export renders the range and returns it Latin-1 encoded in a `file` field.
func (h *Handlers) Export(c *gin.Context) {
	from, to, err := h.parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + err.Error()})
		return
	}

	fileType, err := codec.ParseFileType(c.DefaultQuery("file_type", string(codec.PDF)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.Reports.Export(from, to, fileType)
	switch {
	case errors.Is(err, customerrors.ErrNoRecords):
		h.Metrics.RecordExport(string(fileType), "empty")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.Metrics.RecordExport(string(fileType), "error")
		h.Logger.WithError(err).WithField("file_type", fileType).Error("export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	h.Metrics.RecordExport(string(fileType), "ok")
	filename := codec.ExportFilename(c.Query("from_date"), c.Query("to_date"), fileType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.JSON(http.StatusOK, gin.H{"file": file})
}

func (h *Handlers) parseRange(c *gin.Context) (time.Time, time.Time, error) {
	fromRaw, toRaw := c.Query("from_date"), c.Query("to_date")
	from, err := daterange.Parse(fromRaw, h.Location)
	if err != nil {
		return time.Time{}, time.Time{}, customerrors.ErrInvalidDateValue{Field: "from", Value: fromRaw}
	}
	to, err := daterange.Parse(toRaw, h.Location)
	if err != nil {
		return time.Time{}, time.Time{}, customerrors.ErrInvalidDateValue{Field: "to", Value: toRaw}
	}
	return from, to, nil
}
