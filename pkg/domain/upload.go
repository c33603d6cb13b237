package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFetchFailed    = errors.New("failed to fetch files")
	ErrUploadFailed   = errors.New("failed to upload file")
	ErrDeleteFailed   = errors.New("failed to delete file")
	ErrDownloadFailed = errors.New("failed to download file")

	ErrUploadRejected = errors.New("upload rejected")
	ErrNetworkFailure = errors.New("network failure")
	ErrInvalidFileID  = errors.New("invalid file id")
)

type UploadOutcome int

const (
	// UploadStored means the backend stored a new payload.
	UploadStored UploadOutcome = iota
	// UploadDuplicate means the payload already existed and the backend linked
	// another reference to it. This is a successful upload.
	UploadDuplicate
	UploadRejected
	UploadNetworkFailure
)

func (o UploadOutcome) String() string {
	switch o {
	case UploadStored:
		return "stored"
	case UploadDuplicate:
		return "duplicate"
	case UploadRejected:
		return "rejected"
	case UploadNetworkFailure:
		return "network_failure"
	default:
		return fmt.Sprintf("UploadOutcome(%d)", int(o))
	}
}

// Succeeded reports whether the backend now holds the payload.
func (o UploadOutcome) Succeeded() bool {
	return o == UploadStored || o == UploadDuplicate
}

type UploadResult struct {
	Outcome UploadOutcome
	// Record is nil when the backend reported a duplicate through an error payload.
	Record  *FileRecord
	Message string
}

// RejectedError is returned when the backend refused an upload.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("upload rejected (status %d): %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrUploadRejected
}

// IsConflict reports whether the backend answered 409 Conflict.
func (e *RejectedError) IsConflict() bool {
	return e.StatusCode == 409
}

// NetworkError wraps a failure to reach the backend at all. It is transient:
// the user may retry, the client never does so on its own.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkFailure
}

// RejectionMessage extracts the backend message carried by err, if any.
func RejectionMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
