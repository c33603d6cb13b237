// Package export writes a listing of file records in a portable format.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/flowbaker/filevault/pkg/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
)

var SupportedFormats = []Format{
	FormatJSON,
	FormatCSV,
	FormatYAML,
	FormatXML,
	FormatXLSX,
}

// Columns is the column order of tabular formats.
var Columns = []string{"id", "filename", "type", "size", "uploaded_at", "file_hash", "reference_count"}

type RecordWriter interface {
	FormatName() Format
	Write(w io.Writer, records []domain.FileRecord) error
}

type Registry struct {
	writers map[Format]RecordWriter
}

func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[Format]RecordWriter),
	}
}

func (r *Registry) Register(writer RecordWriter) {
	r.writers[writer.FormatName()] = writer
}

func (r *Registry) GetWriter(format Format) (RecordWriter, error) {
	if writer, ok := r.writers[format]; ok {
		return writer, nil
	}
	return nil, fmt.Errorf("unsupported export format: %s (supported: %s)", format, strings.Join(formatNames(), ", "))
}

func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	registry.Register(NewJSONWriter())
	registry.Register(NewCSVWriter())
	registry.Register(NewYAMLWriter())
	registry.Register(NewXMLWriter())
	registry.Register(NewXLSXWriter())

	return registry
}

var defaultRegistry = NewDefaultRegistry()

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []domain.FileRecord) error {
	writer, err := defaultRegistry.GetWriter(format)
	if err != nil {
		return err
	}

	if err := writer.Write(w, records); err != nil {
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}

	return nil
}

func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if format == "yml" {
		format = FormatYAML
	}

	for _, f := range SupportedFormats {
		if f == format {
			return f, nil
		}
	}

	return "", fmt.Errorf("unsupported export format: %q (supported: %s)", s, strings.Join(formatNames(), ", "))
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}

func formatNames() []string {
	names := make([]string, len(SupportedFormats))
	for i, f := range SupportedFormats {
		names[i] = string(f)
	}
	return names
}

type row struct {
	ID             string `json:"id" yaml:"id"`
	Filename       string `json:"filename" yaml:"filename"`
	Type           string `json:"type" yaml:"type"`
	Size           int64  `json:"size" yaml:"size"`
	UploadedAt     string `json:"uploaded_at" yaml:"uploaded_at"`
	FileHash       string `json:"file_hash" yaml:"file_hash"`
	ReferenceCount int    `json:"reference_count" yaml:"reference_count"`
}

func toRows(records []domain.FileRecord) []row {
	rows := make([]row, len(records))
	for i, r := range records {
		rows[i] = row{
			ID:             r.ID,
			Filename:       r.OriginalFilename,
			Type:           r.FileType,
			Size:           r.Size,
			UploadedAt:     r.UploadedAt.Format(time.RFC3339),
			FileHash:       r.FileHash,
			ReferenceCount: r.ReferenceCount,
		}
	}
	return rows
}

func (r row) values() []string {
	return []string{
		r.ID,
		r.Filename,
		r.Type,
		strconv.FormatInt(r.Size, 10),
		r.UploadedAt,
		r.FileHash,
		strconv.Itoa(r.ReferenceCount),
	}
}
