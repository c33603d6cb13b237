package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/flowbaker/filevault/internal/config"
	"github.com/flowbaker/filevault/internal/initialization"
	"github.com/flowbaker/filevault/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Runtime is built once flags are parsed and shared by every subcommand
type Runtime struct {
	container *initialization.Container
	options   []initialization.ContainerOption
}

func (r *Runtime) Container() *initialization.Container {
	return r.container
}

func (r *Runtime) init(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(config.LoadOptions{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	r.container = initialization.NewContainer(cfg, r.options...)

	if cfg.MetricsAddress != "" {
		go func() {
			if err := metrics.Serve(cmd.Context(), cfg.MetricsAddress); err != nil {
				log.Error().Err(err).Str("addr", cfg.MetricsAddress).Msg("Metrics server stopped")
			}
		}()
	}

	return nil
}

func NewRootCommand(options ...initialization.ContainerOption) *cobra.Command {
	runtime := &Runtime{options: options}

	rootCmd := &cobra.Command{
		Use:   "filevault",
		Short: "File Vault CLI",
		Long: `File Vault is a client for a deduplicating file store. It lists, searches,
uploads, downloads and deletes files, and reports the space deduplication saves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return runtime.init(cmd)
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("api-url", "", "Override API URL")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: filevault.yaml in ., ./config or $HOME/.filevault)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	rootCmd.AddCommand(NewListCommand(runtime))
	rootCmd.AddCommand(NewUploadCommand(runtime))
	rootCmd.AddCommand(NewDownloadCommand(runtime))
	rootCmd.AddCommand(NewDeleteCommand(runtime))
	rootCmd.AddCommand(NewSavingsCommand(runtime))
	rootCmd.AddCommand(NewExportCommand(runtime))
	rootCmd.AddCommand(NewWatchCommand(runtime))
	rootCmd.AddCommand(NewBrowseCommand(runtime))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
