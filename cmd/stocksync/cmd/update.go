package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simaogato/stocksync-backend/internal/app"
	"github.com/simaogato/stocksync-backend/internal/report"
	"github.com/simaogato/stocksync-backend/internal/usecase/reconciler"
)

var updateSymbols []string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reconcile tracked stocks with fresh quotes",
	Long: `Fetch a quote for every tracked stock, or for the given symbols only,
and write the market data back to the store. A failure on one symbol
never stops the others; failures are listed with their kind.`,
	Args: cobra.NoArgs,
	RunE: withApp(runUpdate),
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringSliceVarP(&updateSymbols, "symbols", "s", nil, "comma separated symbols to update instead of every tracked stock")
}

func runUpdate(ctx context.Context, out io.Writer, a *app.App, _ []string) error {
	var (
		result *reconciler.Result
		err    error
	)
	if len(updateSymbols) > 0 {
		result, err = a.Portfolio.UpdateSome(ctx, updateSymbols)
	} else {
		result, err = a.Portfolio.UpdateAll(ctx)
	}
	if err != nil {
		return err
	}

	printResult(out, result)

	summary, err := a.Portfolio.PortfolioSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPortfolio: %s invested %s (%s)\n",
		report.USD(summary.TotalValue), report.USD(summary.TotalInvested), report.Percent(summary.ReturnPercent))
	return nil
}

func printResult(out io.Writer, result *reconciler.Result) {
	fmt.Fprintf(out, "run %s: %d updated, %d failed\n", result.RunID, len(result.Updated), len(result.Failed))
	if len(result.Updated) > 0 {
		fmt.Fprintf(out, "  updated: %s\n", strings.Join(result.Updated, ", "))
	}

	symbols := make([]string, 0, len(result.Failed))
	for symbol := range result.Failed {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		failure := result.Failed[symbol]
		fmt.Fprintf(out, "  %s: %s (%s)\n", symbol, failure.Kind, failure.Reason)
	}
}
