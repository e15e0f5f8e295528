package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the violation logger, shared by the client and the reference backend.

// ErrMissingDateRange is returned when one of the From/To fields is empty.
// Operations failing with it never reach the network.
var ErrMissingDateRange = errors.New("date range is incomplete")

// ErrInvalidDate is returned when a date field cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ErrEmptyURL is returned when a link is submitted without a URL
var ErrEmptyURL = errors.New("url is required")

// ErrTransport wraps failures where the request could not complete at all.
var ErrTransport = errors.New("request failed")

// ErrNoFileContent is returned when an export succeeds but carries no file
var ErrNoFileContent = errors.New("No file content returned")

// ErrBusy is returned when an operation of the same category is still in flight
var ErrBusy = errors.New("operation already in progress")

// ErrUnsupportedFileType is returned for export types outside pdf/docx
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrNotLatin1 is returned when a payload holds a code point above 0xFF
var ErrNotLatin1 = errors.New("payload is not latin-1")

// ErrDuplicateLink is returned by the backend when a URL is already recorded
var ErrDuplicateLink = errors.New("This link already exists in the database.")

// ErrNoRecords is returned when an export range contains nothing
var ErrNoRecords = errors.New("No records found.")

// APIError is an application error reported by the remote service,
// either through an `error` field or a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ErrInvalidDateValue records which field failed to parse
type ErrInvalidDateValue struct {
	Field string
	Value string
}

func (e ErrInvalidDateValue) Error() string {
	return fmt.Sprintf("invalid %s date %q", e.Field, e.Value)
}

func (e ErrInvalidDateValue) Unwrap() error {
	return ErrInvalidDate
}

// ErrURLCheckFailed is returned when URL health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}
