package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simaogato/stocksync-backend/internal/app"
	"github.com/simaogato/stocksync-backend/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "stocksync",
	Short: "Keep tracked stock records fresh and report on the portfolio",
	Long: `Stocksync reconciles the stock records in the configured store with fresh
quotes, aggregates held positions into portfolio totals and keeps a
history of portfolio snapshots.

Every command works directly on the configured store.

Examples:
  stocksync update
  stocksync update --symbols AAPL,MSFT
  stocksync add NVDA
  stocksync position AAPL 10 150.25
  stocksync portfolio
  stocksync snapshot`,
	SilenceUsage: true,
}

var configPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "path to the YAML config file")
}

// withApp builds the services for one command run and closes them afterwards.
func withApp(run func(ctx context.Context, out io.Writer, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		app.SetupLogging(cfg.Log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Build(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initialise: %w", err)
		}
		defer a.Close()

		if _, err := a.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		return run(ctx, cmd.OutOrStdout(), a, args)
	}
}
