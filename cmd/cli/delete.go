package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func NewDeleteCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Short:   "Delete stored files",
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, runtime, args)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, runtime *Runtime, fileIDs []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	if !yes && stdinIsTerminal() {
		confirmed, err := confirmDelete(len(fileIDs))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	s := runtime.Container().NewSession(printingNotifier(os.Stdout))
	defer s.Close()

	if err := s.DeleteMany(cmd.Context(), fileIDs); err != nil {
		return errors.New("one or more deletions failed")
	}

	return nil
}

func confirmDelete(count int) (bool, error) {
	title := "Are you sure you want to delete this file?"
	if count > 1 {
		title = fmt.Sprintf("Are you sure you want to delete %d files?", count)
	}

	var confirmed bool

	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, fmt.Errorf("failed to confirm: %w", err)
	}

	return confirmed, nil
}
