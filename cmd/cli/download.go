package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func NewDownloadCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a stored file",
		Long:  `Download a file by id. The file is saved under its original name; an existing file is never overwritten.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, runtime, args[0])
		},
	}

	cmd.Flags().String("dir", "", "Directory to save into (default: DownloadDir from config)")

	return cmd
}

func runDownload(cmd *cobra.Command, runtime *Runtime, fileID string) error {
	container := runtime.Container()

	s := container.NewSession(printingNotifier(os.Stdout))
	defer s.Close()

	_, err := s.Download(cmd.Context(), fileID, container.GetConfig().DownloadDir)
	return err
}
