package domain

import (
	"fmt"
	"strings"
	"time"
)

const bytesPerMB = 1024 * 1024

type FileRecord struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	Size             int64     `json:"size"`
	UploadedAt       time.Time `json:"uploaded_at"`
	FileHash         string    `json:"file_hash,omitempty"`
	ReferenceCount   int       `json:"reference_count"`
}

// IsShared reports whether more than one upload references the stored payload.
func (f FileRecord) IsShared() bool {
	return f.ReferenceCount > 1
}

// HumanSize renders the size in megabytes with two decimals.
func (f FileRecord) HumanSize() string {
	return FormatMB(f.Size)
}

func FormatMB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/bytesPerMB)
}

// MBToBytes converts a megabyte amount as typed by a user into bytes.
func MBToBytes(mb float64) int64 {
	return int64(mb * bytesPerMB)
}

const dateLayout = "2006-01-02"

// FilterCriteria is the set of active search and filter parameters.
// Zero values mean "not set" except for the size bounds, which are pointers
// so that an explicit zero bound is expressible.
type FilterCriteria struct {
	SearchText string
	FileType   string
	MinSize    *int64
	MaxSize    *int64
	StartDate  time.Time
	EndDate    time.Time

	// Location is the calendar used to reduce timestamps to days. Nil means time.Local.
	Location *time.Location
}

// Normalize returns a copy with an inverted date range swapped.
func (c FilterCriteria) Normalize() FilterCriteria {
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.StartDate.After(c.EndDate) {
		c.StartDate, c.EndDate = c.EndDate, c.StartDate
	}
	return c
}

func (c FilterCriteria) IsEmpty() bool {
	return c.SearchText == "" &&
		c.FileType == "" &&
		c.MinSize == nil &&
		c.MaxSize == nil &&
		c.StartDate.IsZero() &&
		c.EndDate.IsZero()
}

func (c FilterCriteria) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Key returns a stable textual form of the criteria, suitable as a cache key.
func (c FilterCriteria) Key() string {
	c = c.Normalize()

	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(c.SearchText)
	b.WriteString("\x00t=")
	b.WriteString(c.FileType)
	b.WriteString("\x00min=")
	if c.MinSize != nil {
		fmt.Fprintf(&b, "%d", *c.MinSize)
	}
	b.WriteString("\x00max=")
	if c.MaxSize != nil {
		fmt.Fprintf(&b, "%d", *c.MaxSize)
	}
	b.WriteString("\x00from=")
	if !c.StartDate.IsZero() {
		b.WriteString(c.StartDate.In(c.Loc()).Format(dateLayout))
	}
	b.WriteString("\x00to=")
	if !c.EndDate.IsZero() {
		b.WriteString(c.EndDate.In(c.Loc()).Format(dateLayout))
	}
	b.WriteString("\x00loc=")
	b.WriteString(c.Loc().String())
	return b.String()
}

// FormatDate renders a day the way the backend query parameters expect it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD day in loc. Nil loc means time.Local.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// StorageSavings summarizes how much space content deduplication saves.
type StorageSavings struct {
	TotalSize         int64   `json:"total_size"`
	UniqueSize        int64   `json:"unique_size"`
	Savings           int64   `json:"savings"`
	SavingsPercentage float64 `json:"savings_percentage"`
}
