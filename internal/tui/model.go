// Package tui is the interactive file browser.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/internal/session"
	"github.com/flowbaker/filevault/pkg/domain"
)

// FileTypes are the file type filter choices cycled with the file type key.
var FileTypes = []string{"", "image", "document", "video", "audio", "other"}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeUpload
	modeConfirmDelete
)

type sessionChangedMsg struct{}

type notificationMsg notify.Notification

type operationDoneMsg struct {
	err error
}

// Model is the bubbletea model of the browser
type Model struct {
	ctx         context.Context
	session     *session.Session
	downloadDir string

	mode          mode
	records       []domain.FileRecord
	fileTypeIndex int
	deleteTarget  domain.FileRecord
	status        *notify.Notification

	table       table.Model
	searchInput textinput.Model
	pathInput   textinput.Model
	spinner     spinner.Model
	help        help.Model
	keyMap      KeyMap

	width  int
	height int
}

func NewModel(ctx context.Context, s *session.Session, downloadDir string) *Model {
	columns := []table.Column{
		{Title: "NAME", Width: 40},
		{Title: "TYPE", Width: 22},
		{Title: "SIZE", Width: 12},
		{Title: "UPLOADED", Width: 16},
		{Title: "REFS", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(15),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "file name"
	search.SetValue(s.SearchInput())

	path := textinput.New()
	path.Prompt = "upload: "
	path.Placeholder = "path to a local file"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	m := &Model{
		ctx:         ctx,
		session:     s,
		downloadDir: downloadDir,
		table:       t,
		searchInput: search,
		pathInput:   path,
		spinner:     sp,
		help:        help.New(),
		keyMap:      DefaultKeyMap(),
		width:       100,
		height:      24,
	}

	m.syncTable()

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.handleSearch(msg)
		case modeUpload:
			return m.handleUploadPrompt(msg)
		case modeConfirmDelete:
			return m.handleDeleteConfirmation(msg)
		default:
			return m.handleBrowse(msg)
		}

	case sessionChangedMsg:
		m.syncTable()
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		m.status = &n
		return m, nil

	case operationDoneMsg:
		m.syncTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10, 3))
		m.searchInput.Width = max(msg.Width-12, 10)
		m.pathInput.Width = max(msg.Width-12, 10)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Search):
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keyMap.FileType):
		m.fileTypeIndex = (m.fileTypeIndex + 1) % len(FileTypes)
		criteria := m.session.Criteria()
		criteria.FileType = FileTypes[m.fileTypeIndex]
		m.session.SetFilters(criteria)
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keyMap.Reset):
		m.session.ResetFilters()
		m.fileTypeIndex = 0
		m.searchInput.SetValue("")
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		m.status = nil
		return m, m.refresh()

	case key.Matches(msg, m.keyMap.Upload):
		m.mode = modeUpload
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()

	case key.Matches(msg, m.keyMap.Download):
		if record, ok := m.selected(); ok {
			return m, m.download(record.ID)
		}

	case key.Matches(msg, m.keyMap.Delete):
		if record, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.deleteTarget = record
		}

	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.session.FlushSearch()
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.syncTable()
		return m, nil

	case tea.KeyEsc:
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if value := m.searchInput.Value(); value != before {
		m.session.SetSearchText(value)
	}

	return m, cmd
}

func (m *Model) handleUploadPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		m.mode = modeBrowse
		m.pathInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.upload(path)

	case tea.KeyEsc:
		m.mode = modeBrowse
		m.pathInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDeleteConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Confirm):
		m.mode = modeBrowse
		return m, m.delete(m.deleteTarget.ID)

	case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.Quit):
		m.mode = modeBrowse
		m.deleteTarget = domain.FileRecord{}
	}

	return m, nil
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{err: m.session.Refresh(m.ctx)}
	}
}

func (m *Model) upload(path string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Upload(m.ctx, path)
		return operationDoneMsg{err: err}
	}
}

func (m *Model) delete(fileID string) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{err: m.session.Delete(m.ctx, fileID)}
	}
}

func (m *Model) download(fileID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Download(m.ctx, fileID, m.downloadDir)
		return operationDoneMsg{err: err}
	}
}

func (m *Model) selected() (domain.FileRecord, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return domain.FileRecord{}, false
	}
	return m.records[idx], true
}

func (m *Model) syncTable() {
	m.records = m.session.Visible()

	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		name := r.OriginalFilename
		if r.IsShared() {
			name += " *"
		}
		rows[i] = table.Row{
			name,
			r.FileType,
			r.HumanSize(),
			r.UploadedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.ReferenceCount),
		}
	}

	m.table.SetRows(rows)

	// The table clamps the cursor to -1 while it has no rows.
	if len(rows) > 0 {
		switch cursor := m.table.Cursor(); {
		case cursor < 0:
			m.table.SetCursor(0)
		case cursor >= len(rows):
			m.table.SetCursor(len(rows) - 1)
		}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("File Vault"))
	b.WriteString("\n")
	b.WriteString(filterStyle.Render(m.filterLine()))
	b.WriteString("\n")

	switch m.mode {
	case modeSearch:
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	case modeUpload:
		b.WriteString(m.pathInput.View())
		b.WriteString("\n")
	}

	if err := m.session.FetchErr(); err != nil {
		b.WriteString(errorStyle.Render("Failed to fetch files. Press r to retry."))
		b.WriteString("\n")
	}

	if len(m.records) == 0 {
		b.WriteString("\nNo files found\n\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.mode == modeConfirmDelete {
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Are you sure you want to delete %s? (y/n)", m.deleteTarget.OriginalFilename)))
		b.WriteString("\n")
	}

	if m.session.Busy() {
		b.WriteString(m.spinner.View())
		b.WriteString(" working...\n")
	} else if m.status != nil {
		b.WriteString(levelStyles[m.status.Level].Render(m.status.Message))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keyMap))

	return b.String()
}

func (m *Model) filterLine() string {
	criteria := m.session.Criteria()

	parts := []string{fmt.Sprintf("%d of %d files", len(m.records), len(m.session.Collection().Records))}

	if criteria.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search %q", criteria.SearchText))
	}
	if criteria.FileType != "" {
		parts = append(parts, "type "+criteria.FileType)
	}
	if criteria.MinSize != nil {
		parts = append(parts, "min "+domain.FormatMB(*criteria.MinSize))
	}
	if criteria.MaxSize != nil {
		parts = append(parts, "max "+domain.FormatMB(*criteria.MaxSize))
	}
	if !criteria.StartDate.IsZero() {
		parts = append(parts, "from "+domain.FormatDate(criteria.StartDate))
	}
	if !criteria.EndDate.IsZero() {
		parts = append(parts, "to "+domain.FormatDate(criteria.EndDate))
	}

	return strings.Join(parts, " · ")
}
