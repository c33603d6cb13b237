package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowbaker/filevault/internal/notify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF80")).
			MarginBottom(1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFEB3B")).
			Padding(0, 1)

	levelStyles = map[notify.Level]lipgloss.Style{
		notify.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		notify.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		notify.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		notify.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")),
	}
)

func tableStyles() table.Styles {
	return table.Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			BorderBottom(true).
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4A90E2")).
			Bold(true),
		Cell: lipgloss.NewStyle().Padding(0, 1),
	}
}
