package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stocksync-backend/internal/domain"
)

// Store keeps stock records and snapshots in process memory.
// Records are copied on the way in and out so callers never share state with the store.
type Store struct {
	mu        sync.RWMutex
	stocks    map[string]*domain.StockRecord
	snapshots []*domain.PortfolioSnapshot
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		stocks: make(map[string]*domain.StockRecord),
	}
}

// stockRepository implements domain.StockRepository
type stockRepository struct {
	store *Store
}

// NewStockRepository creates a stock repository backed by the store
func NewStockRepository(store *Store) domain.StockRepository {
	return &stockRepository{store: store}
}

// FindBySymbol retrieves a record by its symbol
func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.StockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.stocks[symbol]
	if !ok {
		return nil, fmt.Errorf("stock %s: %w", symbol, domain.ErrRecordNotFound)
	}
	return record.Clone(), nil
}

// ListAll retrieves every record ordered by symbol
func (r *stockRepository) ListAll(ctx context.Context) ([]*domain.StockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := make([]*domain.StockRecord, 0, len(r.store.stocks))
	for _, record := range r.store.stocks {
		records = append(records, record.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Symbol < records[j].Symbol
	})
	return records, nil
}

// Upsert inserts the record or overwrites the market data of the existing one
func (r *stockRepository) Upsert(ctx context.Context, record *domain.StockRecord) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreFailure(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := record.Clone()
	if existing, ok := r.store.stocks[record.Symbol]; ok {
		stored.SharesOwned = existing.SharesOwned
		stored.PurchasePrice = existing.PurchasePrice
	}
	r.store.stocks[record.Symbol] = stored
	return nil
}

// UpdatePosition sets or clears the position fields of an existing record
func (r *stockRepository) UpdatePosition(ctx context.Context, symbol string, shares, purchasePrice decimal.NullDecimal) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreFailure(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.stocks[symbol]
	if !ok {
		return fmt.Errorf("stock %s: %w", symbol, domain.ErrRecordNotFound)
	}
	updated := existing.Clone()
	updated.SharesOwned = shares
	updated.PurchasePrice = purchasePrice
	r.store.stocks[symbol] = updated
	return nil
}

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	store *Store
}

// NewSnapshotRepository creates a snapshot repository backed by the store
func NewSnapshotRepository(store *Store) domain.SnapshotRepository {
	return &snapshotRepository{store: store}
}

// Append stores a new snapshot
func (r *snapshotRepository) Append(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreFailure(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := *snapshot
	r.store.snapshots = append(r.store.snapshots, &stored)
	return nil
}

// List returns the most recent snapshots, newest first
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*domain.PortfolioSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	snapshots := make([]*domain.PortfolioSnapshot, 0, len(r.store.snapshots))
	for i := len(r.store.snapshots) - 1; i >= 0; i-- {
		if limit > 0 && len(snapshots) == limit {
			break
		}
		stored := *r.store.snapshots[i]
		snapshots = append(snapshots, &stored)
	}
	return snapshots, nil
}

// Ping always succeeds for the in-memory store
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
