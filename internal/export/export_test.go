package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func testRecords() []domain.FileRecord {
	return []domain.FileRecord{
		{
			ID:               "3f2b8c1e-5d4a-4b6f-9a7e-2c1d0e9f8a7b",
			OriginalFilename: "a.png",
			FileType:         "image/png",
			Size:             1024,
			UploadedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			FileHash:         "abc123",
			ReferenceCount:   1,
		},
		{
			ID:               "8c9d0e1f-2a3b-4c5d-8e6f-7a8b9c0d1e2f",
			OriginalFilename: "report, final.pdf",
			FileType:         "application/pdf",
			Size:             2048,
			UploadedAt:       time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
			ReferenceCount:   2,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input     string
		expected  Format
		expectErr bool
	}{
		{input: "json", expected: FormatJSON},
		{input: " CSV ", expected: FormatCSV},
		{input: "yml", expected: FormatYAML},
		{input: "xlsx", expected: FormatXLSX},
		{input: "xml", expected: FormatXML},
		{input: "table", expectErr: true},
		{input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("/tmp/files.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	_, err = FormatFromPath("files")
	assert.Error(t, err)

	_, err = FormatFromPath("files.txt")
	assert.Error(t, err)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, testRecords()))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))

	require.Len(t, rows, 2)
	assert.Equal(t, "a.png", rows[0]["filename"])
	assert.Equal(t, "2024-01-02T03:04:05Z", rows[0]["uploaded_at"])
	assert.Equal(t, float64(2), rows[1]["reference_count"])
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, testRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "report, final.pdf", rows[2][1])
	assert.Equal(t, "2048", rows[2][3])
	assert.Equal(t, "", rows[2][5])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, testRecords()))

	var rows []row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))

	assert.Equal(t, toRows(testRecords()), rows)
}

func TestWrite_XML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXML, testRecords()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xmlHeader)))

	doc, err := mxj.NewMapXml(buf.Bytes())
	require.NoError(t, err)

	names, err := doc.ValuesForPath("files.file.filename")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a.png", "report, final.pdf"}, names)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, testRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "a.png", rows[1][1])
	assert.Equal(t, "1024", rows[1][3])
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Format("pdf"), testRecords())

	assert.ErrorContains(t, err, "unsupported export format")
	assert.Zero(t, buf.Len())
}
