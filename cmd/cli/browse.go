package cli

import (
	"fmt"

	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/internal/tui"
	"github.com/spf13/cobra"
)

func NewBrowseCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse, search and manage files interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, runtime)
		},
	}

	return cmd
}

func runBrowse(cmd *cobra.Command, runtime *Runtime) error {
	if !stdinIsTerminal() {
		return fmt.Errorf("browse needs an interactive terminal")
	}

	container := runtime.Container()
	notifications := notify.NewChannelNotifier(16)

	s := container.NewSession(notifications)
	defer s.Close()

	return tui.Run(cmd.Context(), s, notifications, container.GetConfig().DownloadDir)
}
