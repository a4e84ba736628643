// Package report formats records, summaries and snapshots for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// USD renders an amount as US dollars, e.g. "$1,234.50" or "-$3.00".
func USD(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.USD)
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), money.USD).Display()
}

// Percent renders a signed percentage with two decimals.
func Percent(p decimal.Decimal) string {
	s := p.StringFixed(2) + "%"
	if p.IsPositive() {
		return "+" + s
	}
	return s
}

// Portfolio renders the tracked records and the summary as a markdown document.
func Portfolio(records []*domain.StockRecord, summary domain.PortfolioSummary, now time.Time, staleAfter time.Duration) string {
	var b strings.Builder

	b.WriteString("# Portfolio\n\n")
	fmt.Fprintf(&b, "| Total value | Invested | Gain/Loss | Return | Positions |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n\n",
		USD(summary.TotalValue), USD(summary.TotalInvested), USD(summary.TotalGainLoss),
		Percent(summary.ReturnPercent), summary.Positions)

	if len(summary.Holdings) > 0 {
		b.WriteString("## Holdings\n\n")
		b.WriteString("| Symbol | Shares | Value | Cost | Gain/Loss |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, h := range summary.Holdings {
			value := USD(h.Value)
			if h.Unpriced {
				value = "unpriced"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				h.Symbol, h.Shares.String(), value, USD(h.Cost), USD(h.GainLoss))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tracked stocks\n\n")
	if len(records) == 0 {
		b.WriteString("_No stocks tracked._\n")
		return b.String()
	}
	b.WriteString(StocksTable(records, now, staleAfter))
	return b.String()
}

// StocksTable renders one markdown row per record. Stale records are flagged.
func StocksTable(records []*domain.StockRecord, now time.Time, staleAfter time.Duration) string {
	var b strings.Builder
	b.WriteString("| Symbol | Company | Price | Change | Exchange | Updated |\n")
	b.WriteString("|---|---|---:|---:|---|---|\n")
	for _, r := range records {
		updated := "never"
		if !r.LastUpdated.IsZero() {
			updated = r.LastUpdated.Local().Format("2006-01-02 15:04")
		}
		if r.IsStale(now, staleAfter) {
			updated += " (stale)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			r.Symbol, escape(r.CompanyName), USD(r.CurrentPrice), Percent(r.ChangePercent), r.Exchange, updated)
	}
	return b.String()
}

// Snapshots renders snapshot history as a markdown table, newest first.
func Snapshots(snapshots []*domain.PortfolioSnapshot) string {
	var b strings.Builder
	b.WriteString("# Snapshot history\n\n")
	if len(snapshots) == 0 {
		b.WriteString("_No snapshots yet._\n")
		return b.String()
	}
	b.WriteString("| Date | Total value | Invested | Gain/Loss | Return | Positions |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, s := range snapshots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d |\n",
			s.Date.Local().Format("2006-01-02 15:04"), USD(s.TotalValue), USD(s.TotalInvested),
			USD(s.TotalGainLoss), Percent(s.ReturnPercent), s.Positions)
	}
	return b.String()
}

// Render formats markdown for the terminal.
func Render(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return renderer.Render(markdown)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
