package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/flowbaker/filevault/internal/export"
	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/pkg/domain"
	"golang.org/x/term"
)

const outputTable = "table"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sharedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Padding(0, 1)

	levelStyles = map[notify.Level]lipgloss.Style{
		notify.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		notify.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		notify.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		notify.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")),
	}
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// printRecords writes records as a table or in one of the export formats.
func printRecords(w io.Writer, records []domain.FileRecord, output string) error {
	if output == "" || output == outputTable {
		_, err := fmt.Fprintln(w, renderTable(records, isTerminal(w)))
		return err
	}

	format, err := export.ParseFormat(output)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && isTerminal(w) {
		return fmt.Errorf("refusing to write xlsx to a terminal, use export --out")
	}

	return export.Write(w, format, records)
}

func renderTable(records []domain.FileRecord, styled bool) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		name := r.OriginalFilename
		if r.IsShared() {
			name += " *"
		}
		rows[i] = []string{
			r.ID,
			name,
			r.FileType,
			r.HumanSize(),
			r.UploadedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.ReferenceCount),
		}
	}

	t := table.New().
		Headers("ID", "NAME", "TYPE", "SIZE", "UPLOADED", "REFS").
		Rows(rows...)

	if styled {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case row >= 0 && row < len(records) && records[row].IsShared():
					return sharedStyle
				default:
					return cellStyle
				}
			})
	} else {
		t = t.BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderHeader(false).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			})
	}

	out := t.String()
	if len(records) == 0 {
		out += "\nNo files found"
	}
	return out
}

// printNotification writes a notification, colored when w is a terminal.
func printNotification(w io.Writer, prefix string, n notify.Notification) {
	message := n.Message
	if prefix != "" {
		message = prefix + ": " + message
	}

	if isTerminal(w) {
		message = levelStyles[n.Level].Render(message)
	}

	fmt.Fprintln(w, message)
}

// printingNotifier writes session notifications to w
func printingNotifier(w io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(n notify.Notification) {
		printNotification(w, "", n)
	})
}
