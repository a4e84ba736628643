package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simaogato/stocksync-backend/internal/app"
	"github.com/simaogato/stocksync-backend/internal/usecase/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the store and the quote provider",
	Args:  cobra.NoArgs,
	RunE:  withApp(runHealth),
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(ctx context.Context, out io.Writer, a *app.App, _ []string) error {
	r := a.Health.Check(ctx)

	fmt.Fprintf(out, "status: %s\n", r.Status)
	fmt.Fprintf(out, "store:  %s\n", probeLine(r.Store, true))
	fmt.Fprintf(out, "quotes: %s\n", probeLine(r.Quotes, r.QuotesProbed))
	fmt.Fprintf(out, "tracked: %d\n", r.Tracked)
	if len(r.StaleSymbols) > 0 {
		fmt.Fprintf(out, "stale:  %s\n", strings.Join(r.StaleSymbols, ", "))
	}

	if r.Status != health.StatusOK {
		return fmt.Errorf("service is %s", r.Status)
	}
	return nil
}

func probeLine(p health.Probe, probed bool) string {
	switch {
	case !probed:
		return "not probed"
	case p.Healthy:
		return "ok"
	default:
		return "failing: " + p.Error
	}
}
