// Package client talks to the violation logger REST service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/axellelanca/itrules/internal/codec"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader correlates client and server log lines.
const RequestIDHeader = "X-Request-ID"

const defaultUserAgent = "itrules-client/1.0"

// ViolationRecord is a record as returned by GET /get_links/.
// Timestamps are kept verbatim since backends disagree on their zone suffix.
type ViolationRecord struct {
	URL           string `json:"url"`
	Platform      string `json:"platform"`
	RuleViolation string `json:"rule_violation"`
	ActionStatus  string `json:"action_status"`
	Timestamp     string `json:"timestamp"`
	Comments      string `json:"comments"`
}

// DownloadLogEntry is an audit entry as returned by GET /get_logs/.
type DownloadLogEntry struct {
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Count     int    `json:"count"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
}

// AddLinkRequest is the body of POST /add_link/.
type AddLinkRequest struct {
	URL      string `json:"url"`
	Comments string `json:"comments"`
}

// LogDownloadRequest is the body of POST /log_download/.
type LogDownloadRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
	Count    int    `json:"count"`
	User     string `json:"user"`
}

// envelope carries every field any endpoint may answer with.
type envelope struct {
	Message  string             `json:"message"`
	Error    string             `json:"error"`
	Platform string             `json:"platform"`
	Data     []ViolationRecord  `json:"data"`
	Logs     []DownloadLogEntry `json:"logs"`
	File     *string            `json:"file"`
}

// Client is the remote service client. It sets no auth headers: the
// service boundary is open.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     logrus.FieldLogger
}

// NewClient returns a Client for baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  defaultUserAgent,
		logger:     logger,
	}
}

// WithUserAgent overrides the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// AddLink submits a new link and returns the server confirmation text.
func (c *Client) AddLink(ctx context.Context, req AddLinkRequest) (string, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/add_link/", nil, req, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// GetLinks returns the records between from and to (ISO-8601 UTC).
// A missing data field yields an empty slice.
func (c *Client) GetLinks(ctx context.Context, from, to string) ([]ViolationRecord, error) {
	q := url.Values{}
	q.Set("from_date", from)
	q.Set("to_date", to)

	var env envelope
	if err := c.do(ctx, http.MethodGet, "/get_links/", q, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []ViolationRecord{}, nil
	}
	return env.Data, nil
}

// GetLogs returns every download audit entry.
func (c *Client) GetLogs(ctx context.Context) ([]DownloadLogEntry, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/get_logs/", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Logs == nil {
		return []DownloadLogEntry{}, nil
	}
	return env.Logs, nil
}

// LogDownload records an export event and returns the server text.
func (c *Client) LogDownload(ctx context.Context, req LogDownloadRequest) (string, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/log_download/", nil, req, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// Export requests a rendered report and returns the decoded file bytes.
func (c *Client) Export(ctx context.Context, from, to string, fileType codec.FileType) ([]byte, error) {
	q := url.Values{}
	q.Set("from_date", from)
	q.Set("to_date", to)
	q.Set("file_type", string(fileType))

	var env envelope
	if err := c.do(ctx, http.MethodGet, "/export/", q, nil, &env); err != nil {
		return nil, err
	}
	if env.File == nil || *env.File == "" {
		return nil, customerrors.ErrNoFileContent
	}
	data, err := codec.DecodeLatin1(*env.File)
	if err != nil {
		return nil, fmt.Errorf("failed to decode export payload: %w", err)
	}
	return data, nil
}

// do sends one JSON request and decodes the envelope. Any `error` field,
// whatever the status, turns into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out *envelope) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)

	log := c.logger.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return fmt.Errorf("%w: %v", customerrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", customerrors.ErrTransport, err)
	}
	log.WithField("status", resp.StatusCode).Debug("response received")

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if err := json.Unmarshal(raw, out); err != nil {
		if !ok {
			return &customerrors.APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}

	if out.Error != "" {
		return &customerrors.APIError{Status: resp.StatusCode, Message: out.Error}
	}
	if !ok {
		return &customerrors.APIError{Status: resp.StatusCode, Message: out.Message}
	}
	return nil
}
