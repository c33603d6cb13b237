package export

import (
	"encoding/csv"
	"io"

	"github.com/flowbaker/filevault/pkg/domain"
)

type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) FormatName() Format {
	return FormatCSV
}

func (w *CSVWriter) Write(out io.Writer, records []domain.FileRecord) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(Columns); err != nil {
		return err
	}

	for _, r := range toRows(records) {
		if err := writer.Write(r.values()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
