package export

import (
	"io"

	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Files"

type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (w *XLSXWriter) FormatName() Format {
	return FormatXLSX
}

func (w *XLSXWriter) Write(out io.Writer, records []domain.FileRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, r := range toRows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []interface{}{r.ID, r.Filename, r.Type, r.Size, r.UploadedAt, r.FileHash, r.ReferenceCount}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(out)
	return err
}
