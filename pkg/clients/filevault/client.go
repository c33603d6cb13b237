package filevault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flowbaker/filevault/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClientInterface defines the operations of the file storage API
type ClientInterface interface {
	ListFiles(ctx context.Context, req *ListFilesRequest) ([]FileRecord, error)
	UploadFile(ctx context.Context, req *UploadFileRequest) (*UploadFileResponse, error)
	DownloadFile(ctx context.Context, fileID string) (*DownloadFileResponse, error)
	DeleteFile(ctx context.Context, fileID string) error
	GetStorageSavings(ctx context.Context) (*StorageSavings, error)
}

// Client talks to the files resource of the storage backend
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client with the given options
func NewClient(options ...ClientOption) *Client {
	config := DefaultConfig()

	for _, option := range options {
		option(config)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
	}
}

// BaseURL returns the API base URL the client sends requests to
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// ListFiles retrieves file records. Every parameter of the request is optional
// and parameters are combined with AND by the backend.
func (c *Client) ListFiles(ctx context.Context, req *ListFilesRequest) ([]FileRecord, error) {
	params := url.Values{}

	if req != nil {
		if req.Search != "" {
			params.Set("search", req.Search)
		}
		if req.FileType != "" {
			params.Set("file_type", req.FileType)
		}
		if req.MinSize != nil {
			params.Set("min_size", strconv.FormatInt(*req.MinSize, 10))
		}
		if req.MaxSize != nil {
			params.Set("max_size", strconv.FormatInt(*req.MaxSize, 10))
		}
		if req.StartDate != "" {
			params.Set("start_date", req.StartDate)
		}
		if req.EndDate != "" {
			params.Set("end_date", req.EndDate)
		}
	}

	path := "/files"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.doRequest(ctx, "list_files", http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var result []FileRecord
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to process list files response: %w", err)
	}

	if result == nil {
		result = []FileRecord{}
	}

	return result, nil
}

// UploadFile sends the payload as the multipart field "file". Both 200 and 201
// are successful answers; the record's reference count tells them apart.
func (c *Client) UploadFile(ctx context.Context, req *UploadFileRequest) (*UploadFileResponse, error) {
	if req == nil || req.Reader == nil {
		return nil, fmt.Errorf("upload reader is required")
	}

	if req.FileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(req.FileName)))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}

	if _, err := io.Copy(part, req.Reader); err != nil {
		return nil, fmt.Errorf("failed to read upload data: %w", err)
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := c.doRequest(ctx, "upload_file", http.MethodPost, "/files/", &body, form.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	statusCode := resp.StatusCode

	var record FileRecord
	if err := c.handleResponse(resp, &record); err != nil {
		return nil, fmt.Errorf("failed to process upload response: %w", err)
	}

	return &UploadFileResponse{
		StatusCode: statusCode,
		Record:     record,
	}, nil
}

// DeleteFile deletes one file record. The backend answers with an empty body.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("file ID is required")
	}

	path := fmt.Sprintf("/files/%s", url.PathEscape(fileID))

	resp, err := c.doRequest(ctx, "delete_file", http.MethodDelete, path, nil, "")
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := c.handleResponse(resp, nil); err != nil {
		return fmt.Errorf("failed to process delete file response: %w", err)
	}

	return nil
}

// DownloadFile streams a file payload. The save-as name is taken from the
// Content-Disposition header.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (*DownloadFileResponse, error) {
	if fileID == "" {
		return nil, fmt.Errorf("file ID is required")
	}

	path := fmt.Sprintf("/files/%s/download", url.PathEscape(fileID))

	resp, err := c.doRequest(ctx, "download_file", http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode >= 400 {
		if err := c.handleResponse(resp, nil); err != nil {
			return nil, fmt.Errorf("failed to download file: %w", err)
		}
	}

	contentLength, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)

	return &DownloadFileResponse{
		Content:       resp.Body,
		ContentLength: contentLength,
		ContentType:   resp.Header.Get("Content-Type"),
		FileName:      FileNameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, nil
}

// GetStorageSavings retrieves how much space content deduplication saves
func (c *Client) GetStorageSavings(ctx context.Context) (*StorageSavings, error) {
	resp, err := c.doRequest(ctx, "storage_savings", http.MethodGet, "/files/storage_savings/", nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get storage savings: %w", err)
	}

	var result StorageSavings
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to process storage savings response: %w", err)
	}

	return &result, nil
}

// requestIDHeader carries one id per logical request, shared by its retries.
const requestIDHeader = "X-Request-ID"

// responseRequestID prefers the id the backend echoes, then the one we sent.
func responseRequestID(resp *http.Response) string {
	if id := resp.Header.Get(requestIDHeader); id != "" {
		return id
	}
	if resp.Request != nil {
		return resp.Request.Header.Get(requestIDHeader)
	}
	return ""
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FileNameFromDisposition extracts the filename parameter of a
// Content-Disposition header. It accepts quoted, unquoted and RFC 5987
// encoded names and returns "" when there is none.
func FileNameFromDisposition(disposition string) string {
	if disposition == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	// Lenient fallback for headers mime rejects, e.g. unquoted names with spaces.
	idx := strings.Index(strings.ToLower(disposition), "filename=")
	if idx == -1 {
		return ""
	}

	name := disposition[idx+len("filename="):]
	if end := strings.Index(name, ";"); end != -1 {
		name = name[:end]
	}

	return strings.Trim(strings.TrimSpace(name), `"`)
}

func isIdempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodDelete || method == http.MethodHead
}

// doRequest performs an HTTP request. Only idempotent requests without a body
// are retried, and only when retries are configured.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	attempts := 0
	if isIdempotent(method) && body == nil {
		attempts = c.config.RetryAttempts
	}

	reqURL := strings.TrimRight(c.config.BaseURL, "/") + path
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &TransportError{Op: op, Err: ctx.Err()}
			case <-time.After(c.config.RetryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range c.config.DefaultHeaders {
			req.Header.Set(key, value)
		}

		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		if c.config.UserAgent != "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}

		req.Header.Set(requestIDHeader, requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		metrics.ClientRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.ClientRequestsTotal.WithLabelValues(op, "error").Inc()
			lastErr = &TransportError{Op: op, Err: err}

			log.Debug().
				Err(err).
				Str("operation", op).
				Str("request_id", requestID).
				Int("attempt", attempt).
				Msg("request failed")

			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		metrics.ClientRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

		if retryableStatus(resp.StatusCode) && attempt < attempts {
			log.Warn().
				Int("status_code", resp.StatusCode).
				Str("operation", op).
				Str("request_id", requestID).
				Msg("server error, retrying")

			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = &Error{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("server error: %d", resp.StatusCode),
				RequestID:  requestID,
			}
			continue
		}

		if resp.StatusCode >= 500 {
			log.Error().
				Int("status_code", resp.StatusCode).
				Str("operation", op).
				Str("request_id", requestID).
				Msg("server error")
		}

		return resp, nil
	}

	if attempts > 0 {
		return nil, fmt.Errorf("request failed after %d retries: %w", attempts, lastErr)
	}

	return nil, lastErr
}

// handleResponse processes the HTTP response and unmarshals JSON if successful
func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResponse struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}

		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if json.Unmarshal(body, &errorResponse) == nil {
			switch {
			case errorResponse.Error != "":
				message = errorResponse.Error
			case errorResponse.Message != "":
				message = errorResponse.Message
			case errorResponse.Detail != "":
				message = errorResponse.Detail
			}
		}

		return &Error{
			StatusCode: resp.StatusCode,
			Message:    message,
			Body:       string(body),
			RequestID:  responseRequestID(resp),
		}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
