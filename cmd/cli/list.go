package cli

import (
	"fmt"
	"os"

	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/spf13/cobra"
)

func NewListCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List and search stored files",
		Long: `List the files in the store. Search text and filters combine with AND.
Sizes are given in MB and dates as YYYY-MM-DD; an inverted date range is swapped.
Files whose content is shared with other uploads are marked with *.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, runtime)
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("server", false, "Filter on the server instead of locally")
	cmd.Flags().StringP("output", "o", outputTable, "Output format: table, json, csv, yaml, xml")

	return cmd
}

func runList(cmd *cobra.Command, runtime *Runtime) error {
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	server, _ := cmd.Flags().GetBool("server")

	records, err := listRecords(cmd, runtime, criteria, server)
	if err != nil {
		return err
	}

	return printRecords(os.Stdout, records, output)
}

// listRecords fetches the collection once and filters it locally, or lets
// the backend filter when server is set.
func listRecords(cmd *cobra.Command, runtime *Runtime, criteria domain.FilterCriteria, server bool) ([]domain.FileRecord, error) {
	container := runtime.Container()

	if server {
		return container.GetFileManager().ListFiles(cmd.Context(), criteria)
	}

	s := container.NewSession(notify.Discard)
	defer s.Close()

	if err := s.Refresh(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	s.SetFilters(criteria)
	s.SetSearchNow(criteria.SearchText)

	return s.Visible(), nil
}
