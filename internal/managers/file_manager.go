package managers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flowbaker/filevault/internal/metrics"
	"github.com/flowbaker/filevault/pkg/clients/filevault"
	"github.com/flowbaker/filevault/pkg/domain"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
)

const sniffLength = 512

type fileManager struct {
	client filevault.ClientInterface
}

type FileManagerDependencies struct {
	Client filevault.ClientInterface
}

func NewFileManager(deps FileManagerDependencies) domain.FileManager {
	return &fileManager{
		client: deps.Client,
	}
}

func (m *fileManager) ListFiles(ctx context.Context, criteria domain.FilterCriteria) ([]domain.FileRecord, error) {
	criteria = criteria.Normalize()
	loc := criteria.Loc()

	req := &filevault.ListFilesRequest{
		Search:   criteria.SearchText,
		FileType: criteria.FileType,
		MinSize:  criteria.MinSize,
		MaxSize:  criteria.MaxSize,
	}

	if !criteria.StartDate.IsZero() {
		req.StartDate = domain.FormatDate(criteria.StartDate.In(loc))
	}
	if !criteria.EndDate.IsZero() {
		req.EndDate = domain.FormatDate(criteria.EndDate.In(loc))
	}

	files, err := m.client.ListFiles(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, translateError("list_files", err))
	}

	records := make([]domain.FileRecord, len(files))
	for i, file := range files {
		records[i] = toDomainRecord(file)
	}

	return records, nil
}

func (m *fileManager) UploadFile(ctx context.Context, params domain.UploadFileParams) (domain.UploadResult, error) {
	result, err := m.upload(ctx, params)

	metrics.UploadOutcomesTotal.WithLabelValues(result.Outcome.String()).Inc()

	log.Debug().
		Str("file_name", params.Name).
		Str("outcome", result.Outcome.String()).
		Msg("Upload finished")

	return result, err
}

func (m *fileManager) upload(ctx context.Context, params domain.UploadFileParams) (domain.UploadResult, error) {
	if params.Reader == nil {
		return domain.UploadResult{Outcome: domain.UploadRejected, Message: "no file selected"},
			fmt.Errorf("%w: no file selected", domain.ErrUploadFailed)
	}

	reader := bufio.NewReaderSize(params.Reader, sniffLength)

	contentType := params.ContentType
	if contentType == "" {
		contentType = DetectContentType(params.Name, reader)
	}

	resp, err := m.client.UploadFile(ctx, &filevault.UploadFileRequest{
		FileName:    params.Name,
		ContentType: contentType,
		Reader:      reader,
	})
	if err != nil {
		return classifyUploadError(err)
	}

	record := toDomainRecord(resp.Record)

	if record.IsShared() {
		return domain.UploadResult{
			Outcome: domain.UploadDuplicate,
			Record:  &record,
			Message: "file already exists in the system",
		}, nil
	}

	return domain.UploadResult{
		Outcome: domain.UploadStored,
		Record:  &record,
		Message: "file uploaded successfully",
	}, nil
}

func classifyUploadError(err error) (domain.UploadResult, error) {
	var apiErr *filevault.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsConflict():
			return domain.UploadResult{Outcome: domain.UploadRejected, Message: apiErr.Message},
				&domain.RejectedError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		case apiErr.IndicatesDuplicate():
			return domain.UploadResult{Outcome: domain.UploadDuplicate, Message: apiErr.Message}, nil
		default:
			return domain.UploadResult{Outcome: domain.UploadRejected, Message: apiErr.Message},
				&domain.RejectedError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
	}

	if isNetworkError(err) {
		return domain.UploadResult{Outcome: domain.UploadNetworkFailure, Message: err.Error()},
			&domain.NetworkError{Op: "upload_file", Err: err}
	}

	return domain.UploadResult{Outcome: domain.UploadRejected, Message: err.Error()},
		fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
}

func (m *fileManager) UploadPath(ctx context.Context, path string) (domain.UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.UploadResult{Outcome: domain.UploadRejected, Message: err.Error()},
			fmt.Errorf("%w: failed to open file: %w", domain.ErrUploadFailed, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return domain.UploadResult{Outcome: domain.UploadRejected, Message: err.Error()},
			fmt.Errorf("%w: failed to stat file: %w", domain.ErrUploadFailed, err)
	}

	if info.IsDir() {
		return domain.UploadResult{Outcome: domain.UploadRejected, Message: "is a directory"},
			fmt.Errorf("%w: %s is a directory", domain.ErrUploadFailed, path)
	}

	return m.UploadFile(ctx, domain.UploadFileParams{
		Name:   filepath.Base(path),
		Reader: file,
	})
}

func (m *fileManager) DeleteFile(ctx context.Context, fileID string) error {
	if err := ValidateFileID(fileID); err != nil {
		return err
	}

	if err := m.client.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeleteFailed, translateError("delete_file", err))
	}

	return nil
}

func (m *fileManager) DownloadFile(ctx context.Context, params domain.DownloadFileParams) (domain.DownloadedFile, error) {
	if err := ValidateFileID(params.FileID); err != nil {
		return domain.DownloadedFile{}, err
	}

	dir := params.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.DownloadedFile{}, fmt.Errorf("%w: failed to create directory: %w", domain.ErrDownloadFailed, err)
	}

	resp, err := m.client.DownloadFile(ctx, params.FileID)
	if err != nil {
		return domain.DownloadedFile{}, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, translateError("download_file", err))
	}
	defer resp.Content.Close()

	tmp, err := os.CreateTemp(dir, ".filevault-*.part")
	if err != nil {
		return domain.DownloadedFile{}, fmt.Errorf("%w: failed to create temporary file: %w", domain.ErrDownloadFailed, err)
	}

	written, err := io.Copy(tmp, resp.Content)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return domain.DownloadedFile{}, fmt.Errorf("%w: failed to write file: %w", domain.ErrDownloadFailed, translateError("download_file", err))
	}

	target, err := claimPath(dir, SaveName(resp.FileName, params.FileID, resp.ContentType))
	if err != nil {
		os.Remove(tmp.Name())
		return domain.DownloadedFile{}, fmt.Errorf("%w: failed to reserve file name: %w", domain.ErrDownloadFailed, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		os.Remove(target)
		return domain.DownloadedFile{}, fmt.Errorf("%w: failed to save file: %w", domain.ErrDownloadFailed, err)
	}

	log.Debug().
		Str("file_id", params.FileID).
		Str("path", target).
		Int64("size", written).
		Msg("File downloaded")

	return domain.DownloadedFile{
		FileID: params.FileID,
		Path:   target,
		Size:   written,
	}, nil
}

func (m *fileManager) StorageSavings(ctx context.Context) (domain.StorageSavings, error) {
	resp, err := m.client.GetStorageSavings(ctx)
	if err != nil {
		return domain.StorageSavings{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, translateError("storage_savings", err))
	}

	return domain.StorageSavings{
		TotalSize:         resp.TotalSize,
		UniqueSize:        resp.UniqueSize,
		Savings:           resp.Savings,
		SavingsPercentage: resp.SavingsPercentage,
	}, nil
}

// ValidateFileID rejects blank ids. Ids are otherwise opaque; the client
// escapes them into the request path.
func ValidateFileID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFileID, id)
	}
	return nil
}

// DetectContentType guesses a MIME type from the file extension, then from
// the first bytes of the payload. The reader is not consumed.
func DetectContentType(name string, reader *bufio.Reader) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}

	head, _ := reader.Peek(sniffLength)
	if len(head) == 0 {
		return "application/octet-stream"
	}

	return http.DetectContentType(head)
}

// SaveName returns a safe base name for a downloaded payload. Names that are
// empty or try to leave the target directory fall back to a slug of the id.
func SaveName(name, fileID, contentType string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(name)

	if base != "" && base != "." && base != ".." && base != "/" && !strings.HasPrefix(base, ".") {
		return base
	}

	ext := filepath.Ext(base)
	if ext == "" || ext == "." || ext == base {
		ext = ""
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	return slug.Make(fileID) + ext
}

// claimPath reserves a name in dir that no other file uses by creating it
// exclusively. The first free candidate of name, "stem (1).ext", ... wins.
func claimPath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; ; i++ {
		candidate := filepath.Join(dir, name)
		if i > 0 {
			candidate = filepath.Join(dir, stem+" ("+strconv.Itoa(i)+")"+ext)
		}

		file, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		return candidate, file.Close()
	}
}

func isNetworkError(err error) bool {
	return filevault.IsTransportError(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func translateError(op string, err error) error {
	if isNetworkError(err) {
		return &domain.NetworkError{Op: op, Err: err}
	}
	return err
}

func toDomainRecord(file filevault.FileRecord) domain.FileRecord {
	record := domain.FileRecord{
		ID:               file.ID,
		OriginalFilename: file.OriginalFilename,
		FileType:         file.FileType,
		Size:             file.Size,
		UploadedAt:       file.UploadedAt,
		ReferenceCount:   file.ReferenceCount,
	}

	if file.FileHash != nil {
		record.FileHash = *file.FileHash
	}

	return record
}
