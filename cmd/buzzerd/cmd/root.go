package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orabaiah/buzzerd/internal/config"
	"github.com/orabaiah/buzzerd/internal/service/daemon"
	"github.com/orabaiah/buzzerd/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the controller daemon.
	rootCmd = &cobra.Command{
		Use:   "buzzerd [listen-address]",
		Short: "Run the buzzer controller daemon.",
		Long: `Starts the controller daemon that drives the board's outputs and buzzer.

The daemon serves the control page and status endpoint over HTTP, keeps the
daily alarms in persistent storage, counts down the one-shot timer and rings
the buzzer without ever blocking the control loop.
Listen address can be provided as argument to override config (e.g., :9090).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &daemon.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			}

			return daemon.Run(ctx, options)
		},
	}
)

// Execute runs the buzzerd CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
