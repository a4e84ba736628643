package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding is the contribution of one eligible record to the portfolio totals.
type Holding struct {
	Symbol   string
	Shares   decimal.Decimal
	Value    decimal.Decimal // shares * current price
	Cost     decimal.Decimal // shares * purchase price
	GainLoss decimal.Decimal
	Unpriced bool // held but never reconciled, so Value is zero
}

// PortfolioSummary holds the aggregate metrics over all held records.
type PortfolioSummary struct {
	TotalValue    decimal.Decimal
	TotalInvested decimal.Decimal
	TotalGainLoss decimal.Decimal
	ReturnPercent decimal.Decimal // zero when nothing is invested
	Positions     int
	Holdings      []Holding
}

// PortfolioSnapshot is an append-only capture of a PortfolioSummary.
type PortfolioSnapshot struct {
	ID            uuid.UUID
	Date          time.Time
	TotalValue    decimal.Decimal
	TotalInvested decimal.Decimal
	TotalGainLoss decimal.Decimal
	ReturnPercent decimal.Decimal
	Positions     int
}

// NewPortfolioSnapshot captures the summary values at the given instant.
func NewPortfolioSnapshot(summary PortfolioSummary, at time.Time) *PortfolioSnapshot {
	return &PortfolioSnapshot{
		ID:            uuid.New(),
		Date:          at,
		TotalValue:    summary.TotalValue,
		TotalInvested: summary.TotalInvested,
		TotalGainLoss: summary.TotalGainLoss,
		ReturnPercent: summary.ReturnPercent,
		Positions:     summary.Positions,
	}
}
