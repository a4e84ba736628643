package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/simaogato/stocksync-backend/internal/app"
	"github.com/simaogato/stocksync-backend/internal/report"
)

var rawMarkdown bool

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show portfolio totals, holdings and tracked stocks",
	Args:  cobra.NoArgs,
	RunE:  withApp(runPortfolio),
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record the current portfolio totals in the history",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSnapshot),
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded portfolio snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  withApp(runHistory),
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(historyCmd)

	portfolioCmd.Flags().BoolVar(&rawMarkdown, "markdown", false, "print raw markdown instead of rendering it")
	historyCmd.Flags().BoolVar(&rawMarkdown, "markdown", false, "print raw markdown instead of rendering it")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of snapshots to show (0 for all)")
}

func runPortfolio(ctx context.Context, out io.Writer, a *app.App, _ []string) error {
	records, err := a.Portfolio.ListTracked(ctx)
	if err != nil {
		return err
	}
	summary, err := a.Portfolio.PortfolioSummary(ctx)
	if err != nil {
		return err
	}
	return printMarkdown(out, report.Portfolio(records, *summary, time.Now(), a.Config.Health.StaleAfter))
}

func runSnapshot(ctx context.Context, out io.Writer, a *app.App, _ []string) error {
	snapshot, err := a.Portfolio.CreateSnapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "snapshot %s at %s: value %s, invested %s, gain/loss %s (%s), %d positions\n",
		snapshot.ID, snapshot.Date.Local().Format(time.RFC3339),
		report.USD(snapshot.TotalValue), report.USD(snapshot.TotalInvested),
		report.USD(snapshot.TotalGainLoss), report.Percent(snapshot.ReturnPercent), snapshot.Positions)
	return nil
}

func runHistory(ctx context.Context, out io.Writer, a *app.App, _ []string) error {
	snapshots, err := a.Portfolio.SnapshotHistory(ctx, historyLimit)
	if err != nil {
		return err
	}
	return printMarkdown(out, report.Snapshots(snapshots))
}

func printMarkdown(out io.Writer, md string) error {
	if rawMarkdown {
		_, err := fmt.Fprint(out, md)
		return err
	}
	rendered, err := report.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
