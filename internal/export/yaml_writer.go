package export

import (
	"io"

	"github.com/flowbaker/filevault/pkg/domain"
	"gopkg.in/yaml.v3"
)

type YAMLWriter struct{}

func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

func (w *YAMLWriter) FormatName() Format {
	return FormatYAML
}

func (w *YAMLWriter) Write(out io.Writer, records []domain.FileRecord) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)

	if err := encoder.Encode(toRows(records)); err != nil {
		return err
	}

	return encoder.Close()
}
