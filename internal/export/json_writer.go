package export

import (
	"encoding/json"
	"io"

	"github.com/flowbaker/filevault/pkg/domain"
)

type JSONWriter struct{}

func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

func (w *JSONWriter) FormatName() Format {
	return FormatJSON
}

func (w *JSONWriter) Write(out io.Writer, records []domain.FileRecord) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toRows(records))
}
