package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/stocksync-backend/internal/app"
	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/simaogato/stocksync-backend/internal/report"
)

var addCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Start tracking a stock",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runAdd),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked stocks, watch-only ones included",
	Args:  cobra.NoArgs,
	RunE:  withApp(runList),
}

var clearPosition bool

var positionCmd = &cobra.Command{
	Use:   "position <symbol> [<shares> <purchase-price>]",
	Short: "Set or clear the position held in a tracked stock",
	Example: `  stocksync position AAPL 10 150.25
  stocksync position AAPL --clear`,
	Args: func(cmd *cobra.Command, args []string) error {
		if clearPosition {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(3)(cmd, args)
	},
	RunE: withApp(runPosition),
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(positionCmd)

	positionCmd.Flags().BoolVar(&clearPosition, "clear", false, "remove the position and keep the stock watch-only")
}

func runAdd(ctx context.Context, out io.Writer, a *app.App, args []string) error {
	record, err := a.Portfolio.AddStock(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s): %s %s, exchange %s\n",
		record.Symbol, record.CompanyName, report.USD(record.CurrentPrice),
		report.Percent(record.ChangePercent), record.Exchange)
	return nil
}

func runList(ctx context.Context, out io.Writer, a *app.App, _ []string) error {
	records, err := a.Portfolio.ListTracked(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No stocks tracked.")
		return nil
	}
	fmt.Fprint(out, report.StocksTable(records, time.Now(), a.Config.Health.StaleAfter))
	return nil
}

func runPosition(ctx context.Context, out io.Writer, a *app.App, args []string) error {
	var (
		record *domain.StockRecord
		err    error
	)
	if clearPosition {
		record, err = a.Portfolio.ClearPosition(ctx, args[0])
	} else {
		shares, perr := decimal.NewFromString(args[1])
		if perr != nil {
			return fmt.Errorf("invalid shares %q: %w", args[1], domain.ErrValidation)
		}
		price, perr := decimal.NewFromString(args[2])
		if perr != nil {
			return fmt.Errorf("invalid purchase price %q: %w", args[2], domain.ErrValidation)
		}
		record, err = a.Portfolio.SetPosition(ctx, args[0], shares, price)
	}
	if err != nil {
		return err
	}

	if !record.HasPosition() {
		fmt.Fprintf(out, "%s is watch-only\n", record.Symbol)
		return nil
	}
	fmt.Fprintf(out, "%s: %s shares bought at %s\n",
		record.Symbol, record.SharesOwned.Decimal.String(), report.USD(record.PurchasePrice.Decimal))
	return nil
}
