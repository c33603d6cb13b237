package export

import (
	"io"

	"github.com/clbanning/mxj/v2"
	"github.com/flowbaker/filevault/pkg/domain"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

type XMLWriter struct{}

func NewXMLWriter() *XMLWriter {
	return &XMLWriter{}
}

func (w *XMLWriter) FormatName() Format {
	return FormatXML
}

func (w *XMLWriter) Write(out io.Writer, records []domain.FileRecord) error {
	files := make([]interface{}, 0, len(records))
	for _, r := range toRows(records) {
		files = append(files, map[string]interface{}{
			"id":              r.ID,
			"filename":        r.Filename,
			"type":            r.Type,
			"size":            r.Size,
			"uploaded_at":     r.UploadedAt,
			"file_hash":       r.FileHash,
			"reference_count": r.ReferenceCount,
		})
	}

	doc, err := mxj.Map{"file": files}.XmlIndent("", "  ", "files")
	if err != nil {
		return err
	}

	if _, err := io.WriteString(out, xmlHeader+"\n"); err != nil {
		return err
	}

	if _, err := out.Write(doc); err != nil {
		return err
	}

	_, err = io.WriteString(out, "\n")
	return err
}
