package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/flowbaker/filevault/internal/export"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewExportCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the file listing",
		Long: `Export the (optionally filtered) file listing as json, csv, yaml, xml or xlsx.
The format is taken from --format, or from the extension of --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, runtime)
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("format", "f", "", "Export format: json, csv, yaml, xml, xlsx")
	cmd.Flags().String("out", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, runtime *Runtime) error {
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	var format export.Format
	switch {
	case formatName != "":
		format, err = export.ParseFormat(formatName)
	case out != "":
		format, err = export.FormatFromPath(out)
	default:
		format = export.FormatJSON
	}
	if err != nil {
		return err
	}

	records, err := listRecords(cmd, runtime, criteria, false)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	} else if format == export.FormatXLSX && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write xlsx to a terminal, use --out")
	}

	if err := export.Write(w, format, records); err != nil {
		return err
	}

	if out != "" {
		log.Info().Str("path", out).Int("files", len(records)).Msg("Export written")
	}

	return nil
}
