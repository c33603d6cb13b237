package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/internal/session"
)

// Run shows the browser until the user quits or ctx is done. notifications
// should be the notifier the session reports to.
func Run(ctx context.Context, s *session.Session, notifications *notify.ChannelNotifier, downloadDir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The screen belongs to the program; log lines would corrupt it.
	previous := log.Logger
	log.Logger = zerolog.Nop()
	defer func() { log.Logger = previous }()

	model := NewModel(ctx, s, downloadDir)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	changes := make(chan struct{}, 1)
	s.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				program.Send(sessionChangedMsg{})
			case n := <-notifications.C():
				program.Send(notificationMsg(n))
			}
		}
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}

	return nil
}
