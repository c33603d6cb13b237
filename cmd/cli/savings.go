package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/spf13/cobra"
)

func NewSavingsCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Show storage saved by deduplication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavings(cmd, runtime)
		},
	}

	return cmd
}

func runSavings(cmd *cobra.Command, runtime *Runtime) error {
	savings, err := runtime.Container().GetFileManager().StorageSavings(cmd.Context())
	if err != nil {
		return err
	}

	label := lipgloss.NewStyle().Width(14)
	if isTerminal(os.Stdout) {
		label = label.Bold(true)
	}

	fmt.Println(label.Render("Total size:") + domain.FormatMB(savings.TotalSize))
	fmt.Println(label.Render("Unique size:") + domain.FormatMB(savings.UniqueSize))
	fmt.Println(label.Render("Saved:") + fmt.Sprintf("%s (%.2f%%)", domain.FormatMB(savings.Savings), savings.SavingsPercentage))

	return nil
}
