package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockRepository defines the persistence operations for stock records.
// Each Upsert is atomic for its record; there is no multi-record transaction.
type StockRepository interface {
	// FindBySymbol returns ErrRecordNotFound when the symbol has no record
	FindBySymbol(ctx context.Context, symbol string) (*StockRecord, error)

	// ListAll returns every record ordered by symbol
	ListAll(ctx context.Context) ([]*StockRecord, error)

	// Upsert creates the record, or overwrites the market data of the existing one.
	// Position fields are written on insert only; use UpdatePosition to change them.
	Upsert(ctx context.Context, record *StockRecord) error

	// UpdatePosition sets or clears the position fields of an existing record.
	// Returns ErrRecordNotFound when the symbol has no record.
	UpdatePosition(ctx context.Context, symbol string, shares, purchasePrice decimal.NullDecimal) error
}

// SnapshotRepository defines the append-only persistence of portfolio snapshots.
type SnapshotRepository interface {
	// Append stores a new snapshot
	Append(ctx context.Context, snapshot *PortfolioSnapshot) error

	// List returns the most recent snapshots, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]*PortfolioSnapshot, error)
}

// QuoteSource fetches market data for a single symbol.
// Failures wrap ErrSymbolNotFound, ErrRateLimited or ErrProvider.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*Quote, error)
}

// Pinger is implemented by adapters that can report their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
