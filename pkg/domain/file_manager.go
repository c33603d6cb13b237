package domain

import (
	"context"
	"io"
)

type UploadFileParams struct {
	Name        string
	ContentType string // Optional
	Reader      io.Reader
}

type DownloadFileParams struct {
	FileID string
	Dir    string
}

type DownloadedFile struct {
	FileID string
	Path   string
	Size   int64
}

type FileManager interface {
	ListFiles(ctx context.Context, criteria FilterCriteria) ([]FileRecord, error)
	UploadFile(ctx context.Context, params UploadFileParams) (UploadResult, error)
	UploadPath(ctx context.Context, path string) (UploadResult, error)
	DownloadFile(ctx context.Context, params DownloadFileParams) (DownloadedFile, error)
	DeleteFile(ctx context.Context, fileID string) error
	StorageSavings(ctx context.Context) (StorageSavings, error)
}
