package filevault

import (
	"io"
	"time"
)

// FileRecord is the JSON shape of a stored file as returned by the API
type FileRecord struct {
	ID               string    `json:"id"`
	File             string    `json:"file,omitempty"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	Size             int64     `json:"size"`
	UploadedAt       time.Time `json:"uploaded_at"`
	FileHash         *string   `json:"file_hash,omitempty"`
	ReferenceCount   int       `json:"reference_count"`
}

// ListFilesRequest carries the optional, additive query parameters of GET /files
type ListFilesRequest struct {
	Search    string
	FileType  string
	MinSize   *int64
	MaxSize   *int64
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// UploadFileRequest describes a multipart upload to POST /files/
type UploadFileRequest struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// UploadFileResponse is the record the backend answered with. StatusCode is
// 201 for a newly stored payload and 200 when an existing payload was reused.
type UploadFileResponse struct {
	StatusCode int
	Record     FileRecord
}

// DownloadFileResponse streams a file payload. The caller must close Content.
type DownloadFileResponse struct {
	Content       io.ReadCloser
	ContentLength int64
	ContentType   string
	FileName      string
}

// StorageSavings is the JSON shape of GET /files/storage_savings/
type StorageSavings struct {
	TotalSize         int64   `json:"total_size"`
	UniqueSize        int64   `json:"unique_size"`
	Savings           int64   `json:"savings"`
	SavingsPercentage float64 `json:"savings_percentage"`
}
