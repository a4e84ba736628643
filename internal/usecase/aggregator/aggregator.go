package aggregator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/stocksync-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Aggregate computes portfolio totals from a set of stock records.
// Logic:
//  1. Only records holding both SharesOwned and PurchasePrice participate (watch-only records are skipped)
//  2. Position value = shares * current price, position cost = shares * purchase price
//  3. Totals are plain sums; gain/loss = value - invested
//  4. Return % = gain/loss / invested * 100, or zero when nothing is invested
//
// Aggregate performs no I/O and does not retain or mutate its input.
func Aggregate(records []*domain.StockRecord) domain.PortfolioSummary {
	summary := domain.PortfolioSummary{
		TotalValue:    decimal.Zero,
		TotalInvested: decimal.Zero,
		TotalGainLoss: decimal.Zero,
		ReturnPercent: decimal.Zero,
		Holdings:      make([]domain.Holding, 0),
	}

	for _, record := range records {
		if record == nil || !record.HasPosition() {
			continue
		}

		shares := record.SharesOwned.Decimal
		value := shares.Mul(record.CurrentPrice)
		cost := shares.Mul(record.PurchasePrice.Decimal)

		summary.TotalValue = summary.TotalValue.Add(value)
		summary.TotalInvested = summary.TotalInvested.Add(cost)
		summary.Positions++
		summary.Holdings = append(summary.Holdings, domain.Holding{
			Symbol:   record.Symbol,
			Shares:   shares,
			Value:    value,
			Cost:     cost,
			GainLoss: value.Sub(cost),
			Unpriced: record.LastUpdated.IsZero() && record.CurrentPrice.IsZero(),
		})
	}

	summary.TotalGainLoss = summary.TotalValue.Sub(summary.TotalInvested)
	if !summary.TotalInvested.IsZero() {
		summary.ReturnPercent = summary.TotalGainLoss.Div(summary.TotalInvested).Mul(hundred)
	}

	return summary
}
