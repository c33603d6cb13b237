// Package session holds the state behind one interactive or command-line
// use of the file store: the fetched collection, the active criteria and the
// mutations that refresh it.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowbaker/filevault/internal/debounce"
	"github.com/flowbaker/filevault/internal/filter"
	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/pkg/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultConcurrency    = 4
)

type SessionDependencies struct {
	FileManager domain.FileManager
	Evaluator   *filter.Evaluator
	Notifier    notify.Notifier

	SearchDebounce time.Duration
	Concurrency    int
	// Location is the calendar used for date filters. Nil means time.Local.
	Location *time.Location
}

type Session struct {
	fileManager domain.FileManager
	evaluator   *filter.Evaluator
	notifier    notify.Notifier
	search      *debounce.Debouncer[string]
	concurrency int
	location    *time.Location

	inFlight atomic.Int32

	mu          sync.Mutex
	collection  filter.Collection
	criteria    domain.FilterCriteria
	searchInput string
	fetchErr    error
	closed      bool
	listeners   []func()
}

func New(deps SessionDependencies) *Session {
	delay := deps.SearchDebounce
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}

	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	evaluator := deps.Evaluator
	if evaluator == nil {
		evaluator = filter.NewEvaluator(0, 0)
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}

	s := &Session{
		fileManager: deps.FileManager,
		evaluator:   evaluator,
		notifier:    notifier,
		concurrency: concurrency,
		location:    deps.Location,
		criteria:    domain.FilterCriteria{Location: deps.Location},
		collection:  filter.NewCollection(nil),
	}

	s.search = debounce.New(delay, s.applySearch)

	return s
}

// OnChange registers fn to be called whenever the visible records may have
// changed. fn runs on the goroutine that caused the change.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Session) changed() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Session) notify(n notify.Notification) {
	if s.isClosed() {
		return
	}
	s.notifier.Notify(n)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Visible returns the records of the current collection that match the
// current criteria. The slice must not be modified.
func (s *Session) Visible() []domain.FileRecord {
	s.mu.Lock()
	collection := s.collection
	criteria := s.criteria
	s.mu.Unlock()

	return s.evaluator.Evaluate(collection, criteria)
}

func (s *Session) Collection() filter.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collection
}

// Criteria returns the criteria currently applied, including the debounced search text.
func (s *Session) Criteria() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.criteria
}

// SearchInput returns the search text as last typed, which may not be applied yet.
func (s *Session) SearchInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.searchInput
}

// FetchErr returns the error of the last refresh, or nil if it succeeded.
func (s *Session) FetchErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchErr
}

// Busy reports whether a backend request started by the session is running.
func (s *Session) Busy() bool {
	return s.inFlight.Load() > 0
}

// SetSearchText records typed search text. It is applied once typing has
// paused for the debounce delay.
func (s *Session) SetSearchText(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.searchInput = text
	s.mu.Unlock()

	s.search.Set(text)
}

// SetSearchNow applies search text without waiting.
func (s *Session) SetSearchNow(text string) {
	s.SetSearchText(text)
	s.search.Flush()
}

// FlushSearch applies pending search text without waiting.
func (s *Session) FlushSearch() {
	s.search.Flush()
}

func (s *Session) applySearch(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.criteria.SearchText = text
	s.mu.Unlock()

	log.Debug().Str("search", text).Msg("Search applied")

	s.changed()
}

// SetFilters applies the structured criteria immediately. The search text of
// criteria is ignored; it goes through SetSearchText.
func (s *Session) SetFilters(criteria domain.FilterCriteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	criteria.SearchText = s.criteria.SearchText
	if criteria.Location == nil {
		criteria.Location = s.location
	}
	s.criteria = criteria.Normalize()
	s.mu.Unlock()

	s.changed()
}

// ResetFilters clears the search text and every filter.
func (s *Session) ResetFilters() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.criteria = domain.FilterCriteria{Location: s.location}
	s.searchInput = ""
	s.mu.Unlock()

	s.search.Set("")
	s.search.Flush()
}

func (s *Session) begin() func() {
	s.inFlight.Add(1)
	s.changed()

	return func() {
		s.inFlight.Add(-1)
	}
}

// Refresh fetches the whole collection and replaces the current one. On
// failure the previous collection is kept and FetchErr reports the error.
func (s *Session) Refresh(ctx context.Context) error {
	done := s.begin()
	records, err := s.fileManager.ListFiles(ctx, domain.FilterCriteria{})
	done()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.fetchErr = err
	} else {
		s.collection = filter.NewCollection(records)
		s.fetchErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch files")
		s.notify(notify.ForFetch(err))
	}

	s.changed()

	return err
}

// Upload runs the upload workflow for a local file. Stored and duplicate
// outcomes refresh the collection.
func (s *Session) Upload(ctx context.Context, path string) (domain.UploadResult, error) {
	done := s.begin()
	result, err := s.fileManager.UploadPath(ctx, path)
	done()

	if s.isClosed() {
		return result, err
	}

	s.notify(notify.ForUpload(result, err))

	if result.Outcome.Succeeded() {
		// A failed refresh is already reported through FetchErr.
		_ = s.Refresh(ctx)
	}

	return result, err
}

// UploadAttempt is the outcome of uploading one path.
type UploadAttempt struct {
	Path   string
	Result domain.UploadResult
	Err    error
}

// UploadMany uploads paths concurrently. Attempts are in the order of paths;
// the returned error joins every per-path error.
func (s *Session) UploadMany(ctx context.Context, paths []string) ([]UploadAttempt, error) {
	attempts := make([]UploadAttempt, len(paths))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			result, err := s.Upload(ctx, path)
			attempts[i] = UploadAttempt{Path: path, Result: result, Err: err}
			return nil
		})
	}

	_ = g.Wait()

	errs := make([]error, 0, len(attempts))
	for _, attempt := range attempts {
		errs = append(errs, attempt.Err)
	}

	return attempts, errors.Join(errs...)
}

// Delete removes one file and refreshes the collection.
func (s *Session) Delete(ctx context.Context, fileID string) error {
	done := s.begin()
	err := s.fileManager.DeleteFile(ctx, fileID)
	done()

	if s.isClosed() {
		return err
	}

	s.notify(notify.ForDelete(err))

	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("Failed to delete file")
		return err
	}

	_ = s.Refresh(ctx)

	return nil
}

// DeleteMany removes files concurrently. Every completion refreshes.
func (s *Session) DeleteMany(ctx context.Context, fileIDs []string) error {
	errs := make([]error, len(fileIDs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, fileID := range fileIDs {
		g.Go(func() error {
			errs[i] = s.Delete(ctx, fileID)
			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}

// Download saves the payload of a file into dir.
func (s *Session) Download(ctx context.Context, fileID, dir string) (domain.DownloadedFile, error) {
	done := s.begin()
	file, err := s.fileManager.DownloadFile(ctx, domain.DownloadFileParams{FileID: fileID, Dir: dir})
	done()

	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("Failed to download file")
	}

	s.notify(notify.ForDownload(file.Path, err))
	s.changed()

	return file, err
}

// StorageSavings reports how much space deduplication saves on the backend.
func (s *Session) StorageSavings(ctx context.Context) (domain.StorageSavings, error) {
	done := s.begin()
	defer done()

	return s.fileManager.StorageSavings(ctx)
}

// Close stops pending searches. Results of requests still in flight are
// discarded once they arrive.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.search.Stop()
}
