package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/flowbaker/filevault/internal/notify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewUploadCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [path...]",
		Short: "Upload local files",
		Long: `Upload one or more local files. Content that already exists in the store is not
stored twice; such uploads are reported as "File already exists in the system".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, runtime, args)
		},
	}

	return cmd
}

func runUpload(cmd *cobra.Command, runtime *Runtime, paths []string) error {
	if len(paths) == 0 {
		if !stdinIsTerminal() {
			return fmt.Errorf("no file selected")
		}

		path, err := promptPath()
		if err != nil {
			return err
		}
		paths = []string{path}
	}

	s := runtime.Container().NewSession(notify.Discard)
	defer s.Close()

	attempts, err := s.UploadMany(cmd.Context(), paths)

	for _, attempt := range attempts {
		printNotification(os.Stdout, attempt.Path, notify.ForUpload(attempt.Result, attempt.Err))
	}

	if err != nil {
		log.Debug().Err(err).Msg("Upload finished with failures")
		return errors.New("one or more uploads failed")
	}

	return nil
}

func promptPath() (string, error) {
	var path string

	err := huh.NewInput().
		Title("File to upload").
		Placeholder("path to a local file").
		Value(&path).
		Validate(func(s string) error {
			info, err := os.Stat(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", s)
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read path: %w", err)
	}

	return strings.TrimSpace(path), nil
}
