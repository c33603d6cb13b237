package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowbaker/filevault/internal/session"
	"github.com/flowbaker/filevault/pkg/domain"
)

type fakeFileManager struct {
	mu      sync.Mutex
	records []domain.FileRecord
	deleted []string
}

func (f *fakeFileManager) ListFiles(context.Context, domain.FilterCriteria) ([]domain.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.FileRecord{}, f.records...), nil
}

func (f *fakeFileManager) UploadFile(context.Context, domain.UploadFileParams) (domain.UploadResult, error) {
	return domain.UploadResult{Outcome: domain.UploadStored}, nil
}

func (f *fakeFileManager) UploadPath(context.Context, string) (domain.UploadResult, error) {
	return domain.UploadResult{Outcome: domain.UploadStored}, nil
}

func (f *fakeFileManager) DownloadFile(_ context.Context, params domain.DownloadFileParams) (domain.DownloadedFile, error) {
	return domain.DownloadedFile{FileID: params.FileID, Path: params.Dir + "/file"}, nil
}

func (f *fakeFileManager) DeleteFile(_ context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, fileID)
	kept := f.records[:0:0]
	for _, r := range f.records {
		if r.ID != fileID {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeFileManager) StorageSavings(context.Context) (domain.StorageSavings, error) {
	return domain.StorageSavings{}, nil
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) (*Model, *fakeFileManager) {
	t.Helper()

	manager := &fakeFileManager{records: []domain.FileRecord{
		{ID: "1", OriginalFilename: "a.png", FileType: "image/png", Size: 1_000_000, ReferenceCount: 1, UploadedAt: time.Now()},
		{ID: "2", OriginalFilename: "b.pdf", FileType: "application/pdf", Size: 5_000_000, ReferenceCount: 2, UploadedAt: time.Now()},
	}}

	s := session.New(session.SessionDependencies{
		FileManager:    manager,
		SearchDebounce: time.Hour,
	})
	t.Cleanup(s.Close)

	m := NewModel(context.Background(), s, t.TempDir())

	msg := m.refresh()()
	m.Update(msg)

	return m, manager
}

func TestModel_ShowsRecords(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "a.png")
	assert.Contains(t, view, "b.pdf *")
	assert.Contains(t, view, "2 of 2 files")
}

func TestModel_SelectsFirstRowAfterLoad(t *testing.T) {
	m, _ := newTestModel(t)

	record, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "a.png", record.OriginalFilename)

	_, cmd := m.Update(runeKey('g'))
	require.NotNil(t, cmd)

	// Filtering down to nothing and back keeps a valid selection.
	m.session.SetSearchNow("nothing matches")
	m.syncTable()
	_, ok = m.selected()
	assert.False(t, ok)

	m.session.SetSearchNow("")
	m.syncTable()
	record, ok = m.selected()
	require.True(t, ok)
	assert.Equal(t, "a.png", record.OriginalFilename)
}

func TestModel_CyclesFileType(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runeKey('t'))

	assert.Equal(t, "image", m.session.Criteria().FileType)
	require.Len(t, m.records, 1)
	assert.Equal(t, "a.png", m.records[0].OriginalFilename)

	for range len(FileTypes) - 1 {
		m.Update(runeKey('t'))
	}
	assert.Equal(t, "", m.session.Criteria().FileType)
	assert.Len(t, m.records, 2)
}

func TestModel_SearchAppliesOnEnter(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runeKey('/'))
	assert.Equal(t, modeSearch, m.mode)

	m.Update(runeKey('p'))
	m.Update(runeKey('d'))
	m.Update(runeKey('f'))

	assert.Equal(t, "pdf", m.session.SearchInput())
	assert.Equal(t, "", m.session.Criteria().SearchText)
	assert.Len(t, m.records, 2)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "pdf", m.session.Criteria().SearchText)
	require.Len(t, m.records, 1)
	assert.Equal(t, "b.pdf", m.records[0].OriginalFilename)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.session.Criteria().IsEmpty())
	assert.Len(t, m.records, 2)
}

func TestModel_DeleteRequiresConfirmation(t *testing.T) {
	m, manager := newTestModel(t)

	_, cmd := m.Update(runeKey('d'))
	assert.Nil(t, cmd)
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Are you sure you want to delete a.png?")

	m.Update(runeKey('n'))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, manager.deleted)

	m.Update(runeKey('d'))
	_, cmd = m.Update(runeKey('y'))
	require.NotNil(t, cmd)

	m.Update(cmd())

	assert.Equal(t, []string{"1"}, manager.deleted)
	require.Len(t, m.records, 1)
	assert.Equal(t, "b.pdf", m.records[0].OriginalFilename)
}

func TestModel_UploadPrompt(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runeKey('u'))
	assert.Equal(t, modeUpload, m.mode)

	for _, r := range "/tmp/x.txt" {
		m.Update(runeKey(r))
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)

	msg := cmd()
	assert.Equal(t, operationDoneMsg{}, msg)
}

func TestModel_QuitKeyTypesInSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runeKey('/'))
	m.Update(runeKey('q'))

	assert.Equal(t, "q", m.session.SearchInput())
	assert.Equal(t, modeSearch, m.mode)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
