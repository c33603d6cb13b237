// Package filter evaluates search and filter criteria against an in-memory
// collection of file records.
package filter

import (
	"strings"
	"time"

	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/rs/xid"
)

// Collection is one fetched snapshot of the backend's file list. Generation
// identifies the snapshot; a refresh always produces a new one.
type Collection struct {
	Generation string
	Records    []domain.FileRecord
}

func NewCollection(records []domain.FileRecord) Collection {
	return Collection{
		Generation: xid.New().String(),
		Records:    records,
	}
}

// Evaluate returns the records matching every active criterion, in their
// original order. It does not modify its inputs.
func Evaluate(records []domain.FileRecord, criteria domain.FilterCriteria) []domain.FileRecord {
	if criteria.IsEmpty() {
		return records
	}

	m := newMatcher(criteria)

	result := make([]domain.FileRecord, 0, len(records))
	for _, record := range records {
		if m.matches(record) {
			result = append(result, record)
		}
	}

	return result
}

type matcher struct {
	search   string
	fileType string
	minSize  *int64
	maxSize  *int64
	start    time.Time
	end      time.Time
	loc      *time.Location
}

func newMatcher(criteria domain.FilterCriteria) matcher {
	criteria = criteria.Normalize()
	loc := criteria.Loc()

	m := matcher{
		search:   strings.ToLower(criteria.SearchText),
		fileType: strings.ToLower(criteria.FileType),
		minSize:  criteria.MinSize,
		maxSize:  criteria.MaxSize,
		loc:      loc,
	}

	if !criteria.StartDate.IsZero() {
		m.start = StartOfDay(criteria.StartDate, loc)
	}
	if !criteria.EndDate.IsZero() {
		m.end = EndOfDay(criteria.EndDate, loc)
	}

	return m
}

func (m matcher) matches(record domain.FileRecord) bool {
	if m.search != "" && !strings.Contains(strings.ToLower(record.OriginalFilename), m.search) {
		return false
	}

	// Substring, not equality: "image" matches "image/png".
	if m.fileType != "" && !strings.Contains(strings.ToLower(record.FileType), m.fileType) {
		return false
	}

	if m.minSize != nil && record.Size < *m.minSize {
		return false
	}
	if m.maxSize != nil && record.Size > *m.maxSize {
		return false
	}

	if m.start.IsZero() && m.end.IsZero() {
		return true
	}

	uploaded := MidDay(record.UploadedAt, m.loc)
	if !m.start.IsZero() && uploaded.Before(m.start) {
		return false
	}
	if !m.end.IsZero() && uploaded.After(m.end) {
		return false
	}

	return true
}

// StartOfDay returns 00:00:00 of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, mo, d := t.In(loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, mo, d := t.In(loc).Date()
	return time.Date(y, mo, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// MidDay returns 12:00 of t's calendar day in loc. Upload timestamps are
// compared at noon so that only their day matters.
func MidDay(t time.Time, loc *time.Location) time.Time {
	y, mo, d := t.In(loc).Date()
	return time.Date(y, mo, d, 12, 0, 0, 0, loc)
}
