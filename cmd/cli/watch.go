package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/flowbaker/filevault/internal/notify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewWatchCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-list files on a schedule",
		Long: `Fetch and print the file listing on a cron schedule until interrupted.
The schedule accepts standard cron expressions and descriptors such as "@every 30s".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, runtime)
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().String("schedule", "", "Cron schedule (default: WatchSchedule from config)")
	cmd.Flags().StringP("output", "o", outputTable, "Output format: table, json, csv, yaml, xml")

	return cmd
}

func runWatch(cmd *cobra.Command, runtime *Runtime) error {
	container := runtime.Container()

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	expr := container.GetConfig().WatchSchedule

	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return fmt.Errorf("failed to parse schedule %q: %w", expr, err)
	}

	s := container.NewSession(notify.LogNotifier{})
	defer s.Close()

	s.SetFilters(criteria)
	s.SetSearchNow(criteria.SearchText)

	ctx := cmd.Context()

	for {
		if err := s.Refresh(ctx); err == nil {
			fmt.Fprintf(os.Stdout, "\n%s\n", time.Now().Format(time.RFC1123))
			if err := printRecords(os.Stdout, s.Visible(), output); err != nil {
				return err
			}
		}

		next := schedule.Next(time.Now())
		log.Debug().Time("next_run", next).Msg("Waiting for next refresh")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
