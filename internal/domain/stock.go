package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is the listing venue label reported by the quote provider (e.g. NMS, NYQ).
type Exchange string

const ExchangeUnknown Exchange = "Unknown"

// Quote is a normalized market data point for one symbol.
type Quote struct {
	Symbol            string
	CompanyName       string
	CurrentPrice      decimal.Decimal
	PreviousClose     decimal.Decimal
	Volume            int64
	MarketCap         int64
	FiftyTwoWeekRange string
	Exchange          Exchange
}

// StockRecord is the persisted state of one tracked symbol.
// Symbol is the identity; there is at most one record per symbol.
type StockRecord struct {
	Symbol            string
	CompanyName       string
	CurrentPrice      decimal.Decimal
	PreviousClose     decimal.Decimal
	PriceChange       decimal.Decimal
	ChangePercent     decimal.Decimal
	Volume            int64
	MarketCap         int64
	FiftyTwoWeekRange string
	Exchange          Exchange

	// Position fields. Both must be set for the record to count in portfolio totals.
	SharesOwned   decimal.NullDecimal
	PurchasePrice decimal.NullDecimal

	LastUpdated time.Time // zero until the first successful reconciliation
}

// NewStockRecord returns an empty record for a symbol that has never been reconciled.
func NewStockRecord(symbol string) *StockRecord {
	return &StockRecord{
		Symbol:   symbol,
		Exchange: ExchangeUnknown,
	}
}

// ApplyQuote merges fetched market fields into the record and stamps LastUpdated.
// Position fields are never touched. An empty company name or exchange in the quote
// keeps the value already on the record.
func (r *StockRecord) ApplyQuote(q *Quote, now time.Time) {
	if q.CompanyName != "" {
		r.CompanyName = q.CompanyName
	}
	r.CurrentPrice = q.CurrentPrice
	r.PreviousClose = q.PreviousClose
	r.Volume = q.Volume
	r.MarketCap = q.MarketCap
	if q.FiftyTwoWeekRange != "" {
		r.FiftyTwoWeekRange = q.FiftyTwoWeekRange
	}
	if q.Exchange != "" {
		r.Exchange = q.Exchange
	} else if r.Exchange == "" {
		r.Exchange = ExchangeUnknown
	}
	r.RecomputeDerived()
	r.LastUpdated = now
}

// RecomputeDerived sets PriceChange and ChangePercent from the current and previous prices.
// ChangePercent is zero when PreviousClose is zero.
func (r *StockRecord) RecomputeDerived() {
	r.PriceChange = r.CurrentPrice.Sub(r.PreviousClose)
	if r.PreviousClose.IsZero() {
		r.ChangePercent = decimal.Zero
		return
	}
	r.ChangePercent = r.PriceChange.Div(r.PreviousClose).Mul(decimal.NewFromInt(100))
}

// HasPosition reports whether both shares and purchase price are present.
func (r *StockRecord) HasPosition() bool {
	return r.SharesOwned.Valid && r.PurchasePrice.Valid
}

// IsStale reports whether the record has not been reconciled within the given window.
// A zero window disables staleness.
func (r *StockRecord) IsStale(now time.Time, after time.Duration) bool {
	if after <= 0 {
		return false
	}
	if r.LastUpdated.IsZero() {
		return true
	}
	return now.Sub(r.LastUpdated) > after
}

// Clone returns a copy that shares no mutable state with r.
func (r *StockRecord) Clone() *StockRecord {
	c := *r
	return &c
}
