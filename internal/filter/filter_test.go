package filter

import (
	"testing"
	"time"

	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func testRecords() []domain.FileRecord {
	return []domain.FileRecord{
		{ID: "1", OriginalFilename: "a.png", FileType: "image/png", Size: 1_000_000, UploadedAt: day(2024, time.January, 10, 9)},
		{ID: "2", OriginalFilename: "b.pdf", FileType: "application/pdf", Size: 3_000_000, UploadedAt: day(2024, time.January, 12, 23)},
		{ID: "3", OriginalFilename: "Report-Final.PDF", FileType: "application/pdf", Size: 500, UploadedAt: day(2024, time.February, 1, 0)},
		{ID: "4", OriginalFilename: "clip.mp4", FileType: "video/mp4", Size: 0, UploadedAt: day(2024, time.March, 5, 15)},
	}
}

func ids(records []domain.FileRecord) []string {
	result := make([]string, 0, len(records))
	for _, r := range records {
		result = append(result, r.ID)
	}
	return result
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		expected []string
	}{
		{
			name:     "empty criteria keeps everything",
			criteria: domain.FilterCriteria{},
			expected: []string{"1", "2", "3", "4"},
		},
		{
			name:     "file type substring",
			criteria: domain.FilterCriteria{FileType: "image"},
			expected: []string{"1"},
		},
		{
			name:     "file type is case insensitive",
			criteria: domain.FilterCriteria{FileType: "PDF"},
			expected: []string{"2", "3"},
		},
		{
			name:     "search is case insensitive substring of the name",
			criteria: domain.FilterCriteria{SearchText: "report"},
			expected: []string{"3"},
		},
		{
			name:     "min size",
			criteria: domain.FilterCriteria{MinSize: int64Ptr(2_000_000)},
			expected: []string{"2"},
		},
		{
			name:     "max size is inclusive",
			criteria: domain.FilterCriteria{MaxSize: int64Ptr(1_000_000)},
			expected: []string{"1", "3", "4"},
		},
		{
			name:     "explicit zero max size is a bound",
			criteria: domain.FilterCriteria{MaxSize: int64Ptr(0)},
			expected: []string{"4"},
		},
		{
			name:     "min and max combined",
			criteria: domain.FilterCriteria{MinSize: int64Ptr(500), MaxSize: int64Ptr(1_000_000)},
			expected: []string{"1", "3"},
		},
		{
			name:     "start date covers the whole day",
			criteria: domain.FilterCriteria{StartDate: day(2024, time.January, 12, 18), Location: time.UTC},
			expected: []string{"2", "3", "4"},
		},
		{
			name:     "end date covers the whole day",
			criteria: domain.FilterCriteria{EndDate: day(2024, time.January, 12, 1), Location: time.UTC},
			expected: []string{"1", "2"},
		},
		{
			name: "single day range",
			criteria: domain.FilterCriteria{
				StartDate: day(2024, time.February, 1, 0),
				EndDate:   day(2024, time.February, 1, 0),
				Location:  time.UTC,
			},
			expected: []string{"3"},
		},
		{
			name: "all criteria combine with and",
			criteria: domain.FilterCriteria{
				SearchText: ".pdf",
				FileType:   "application",
				MinSize:    int64Ptr(1000),
				StartDate:  day(2024, time.January, 1, 0),
				EndDate:    day(2024, time.January, 31, 0),
				Location:   time.UTC,
			},
			expected: []string{"2"},
		},
		{
			name:     "no match",
			criteria: domain.FilterCriteria{SearchText: "missing"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(testRecords(), tt.criteria)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestEvaluate_SwappedDatesAreEquivalent(t *testing.T) {
	early := day(2024, time.January, 11, 0)
	late := day(2024, time.February, 1, 0)

	forward := Evaluate(testRecords(), domain.FilterCriteria{StartDate: early, EndDate: late, Location: time.UTC})
	backward := Evaluate(testRecords(), domain.FilterCriteria{StartDate: late, EndDate: early, Location: time.UTC})

	assert.Equal(t, []string{"2", "3"}, ids(forward))
	assert.Equal(t, ids(forward), ids(backward))
}

func TestEvaluate_UsesCriteriaLocationForDays(t *testing.T) {
	// 23:00 UTC on Jan 12 is already Jan 13 in UTC+2.
	eastern := time.FixedZone("UTC+2", 2*60*60)
	criteria := domain.FilterCriteria{
		StartDate: time.Date(2024, time.January, 13, 0, 0, 0, 0, eastern),
		EndDate:   time.Date(2024, time.January, 13, 0, 0, 0, 0, eastern),
		Location:  eastern,
	}

	result := Evaluate(testRecords(), criteria)
	assert.Equal(t, []string{"2"}, ids(result))
}

func TestEvaluate_IsSubsequenceAndDoesNotMutate(t *testing.T) {
	records := testRecords()
	original := testRecords()

	result := Evaluate(records, domain.FilterCriteria{MaxSize: int64Ptr(1_000_000)})

	assert.Equal(t, original, records)
	require.Len(t, result, 3)

	last := -1
	for _, r := range result {
		idx := -1
		for i, candidate := range records {
			if candidate.ID == r.ID {
				idx = i
			}
		}
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	criteria := domain.FilterCriteria{FileType: "pdf", MinSize: int64Ptr(100)}
	assert.Equal(t, Evaluate(testRecords(), criteria), Evaluate(testRecords(), criteria))
}

func TestDayBoundaries(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2024, time.May, 6, 17, 45, 12, 99, loc)

	assert.Equal(t, time.Date(2024, time.May, 6, 0, 0, 0, 0, loc), StartOfDay(ts, loc))
	assert.Equal(t, time.Date(2024, time.May, 6, 12, 0, 0, 0, loc), MidDay(ts, loc))
	assert.Equal(t, time.Date(2024, time.May, 6, 23, 59, 59, 999_999_999, loc), EndOfDay(ts, loc))
}

func TestNewCollection(t *testing.T) {
	a := NewCollection(testRecords())
	b := NewCollection(testRecords())

	assert.NotEmpty(t, a.Generation)
	assert.NotEqual(t, a.Generation, b.Generation)
	assert.Len(t, a.Records, 4)
}
