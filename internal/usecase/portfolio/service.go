package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/simaogato/stocksync-backend/internal/usecase/aggregator"
	"github.com/simaogato/stocksync-backend/internal/usecase/discovery"
	"github.com/simaogato/stocksync-backend/internal/usecase/reconciler"
	"github.com/simaogato/stocksync-backend/internal/usecase/snapshot"
)

// PortfolioService exposes the portfolio operations to the transport and CLI layers
type PortfolioService struct {
	StockRepo  domain.StockRepository
	Discovery  *discovery.DiscoveryService
	Reconciler *reconciler.ReconcilerService
	Snapshots  *snapshot.SnapshotService
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(
	stockRepo domain.StockRepository,
	discoveryService *discovery.DiscoveryService,
	reconcilerService *reconciler.ReconcilerService,
	snapshotService *snapshot.SnapshotService,
) *PortfolioService {
	return &PortfolioService{
		StockRepo:  stockRepo,
		Discovery:  discoveryService,
		Reconciler: reconcilerService,
		Snapshots:  snapshotService,
	}
}

// ListTracked returns every stored record, watch-only ones included
func (s *PortfolioService) ListTracked(ctx context.Context) ([]*domain.StockRecord, error) {
	records, err := s.StockRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked stocks: %w", domain.StoreFailure(err))
	}
	return records, nil
}

// UpdateAll reconciles every symbol found in the store.
// Only a failed discovery fails the whole operation.
func (s *PortfolioService) UpdateAll(ctx context.Context) (*reconciler.Result, error) {
	symbols, err := s.Discovery.DiscoverSymbols(ctx)
	if err != nil {
		return nil, err
	}
	return s.Reconciler.Reconcile(ctx, symbols), nil
}

// UpdateSome reconciles the given symbols, tracked or not
func (s *PortfolioService) UpdateSome(ctx context.Context, symbols []string) (*reconciler.Result, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("at least one symbol is required: %w", domain.ErrValidation)
	}
	return s.Reconciler.Reconcile(ctx, symbols), nil
}

// AddStock starts tracking a symbol by reconciling it once.
// Adding an already tracked symbol refreshes it.
func (s *PortfolioService) AddStock(ctx context.Context, rawSymbol string) (*domain.StockRecord, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	return s.Reconciler.ReconcileOne(ctx, symbol)
}

// SetPosition records the holding for a tracked symbol.
// Both values must be non-negative; market data is left untouched.
func (s *PortfolioService) SetPosition(ctx context.Context, rawSymbol string, shares, purchasePrice decimal.Decimal) (*domain.StockRecord, error) {
	if shares.IsNegative() {
		return nil, fmt.Errorf("shares must not be negative: %w", domain.ErrValidation)
	}
	if purchasePrice.IsNegative() {
		return nil, fmt.Errorf("purchase price must not be negative: %w", domain.ErrValidation)
	}
	return s.updatePosition(ctx, rawSymbol, decimal.NewNullDecimal(shares), decimal.NewNullDecimal(purchasePrice))
}

// ClearPosition turns a held symbol back into a watch-only one
func (s *PortfolioService) ClearPosition(ctx context.Context, rawSymbol string) (*domain.StockRecord, error) {
	return s.updatePosition(ctx, rawSymbol, decimal.NullDecimal{}, decimal.NullDecimal{})
}

func (s *PortfolioService) updatePosition(ctx context.Context, rawSymbol string, shares, purchasePrice decimal.NullDecimal) (*domain.StockRecord, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}

	if err := s.StockRepo.UpdatePosition(ctx, symbol, shares, purchasePrice); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s is not tracked: %w", symbol, err)
		}
		return nil, fmt.Errorf("failed to update position for %s: %w", symbol, domain.StoreFailure(err))
	}

	record, err := s.StockRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s: %w", symbol, domain.StoreFailure(err))
	}
	return record, nil
}

// PortfolioSummary aggregates the records currently in the store
func (s *PortfolioService) PortfolioSummary(ctx context.Context) (*domain.PortfolioSummary, error) {
	records, err := s.StockRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for summary: %w", domain.StoreFailure(err))
	}
	summary := aggregator.Aggregate(records)
	return &summary, nil
}

// CreateSnapshot captures the current summary as a new history entry
func (s *PortfolioService) CreateSnapshot(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	summary, err := s.PortfolioSummary(ctx)
	if err != nil {
		return nil, err
	}
	return s.Snapshots.WriteSnapshot(ctx, *summary)
}

// SnapshotHistory returns the latest snapshots, newest first
func (s *PortfolioService) SnapshotHistory(ctx context.Context, limit int) ([]*domain.PortfolioSnapshot, error) {
	return s.Snapshots.History(ctx, limit)
}
