package filevault

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a non-2xx answer from the file storage API
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Body       string `json:"body,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("filevault: %s (status: %d, request_id: %s)", e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("filevault: %s (status: %d)", e.Message, e.StatusCode)
}

// IsConflict returns true if the backend refused the request as conflicting
func (e *Error) IsConflict() bool {
	return e.StatusCode == 409
}

// IndicatesDuplicate returns true if the backend message says the content already exists
func (e *Error) IndicatesDuplicate() bool {
	return strings.Contains(strings.ToLower(e.Message), "already exists")
}

// TransportError means no HTTP response was received at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("filevault: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError checks if an error is a filevault API error
func IsAPIError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsTransportError checks if the request never got an HTTP response
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

func retryableStatus(statusCode int) bool {
	return statusCode >= 500 || statusCode == 429
}
