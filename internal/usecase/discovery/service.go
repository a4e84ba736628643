package discovery

import (
	"context"
	"fmt"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// DiscoveryService derives the tracked symbol set from the store contents
type DiscoveryService struct {
	StockRepo domain.StockRepository
}

// NewDiscoveryService creates a new DiscoveryService instance
func NewDiscoveryService(stockRepo domain.StockRepository) *DiscoveryService {
	return &DiscoveryService{
		StockRepo: stockRepo,
	}
}

// DiscoverSymbols returns the symbol of every record currently in the store, sorted and unique.
// There is no static fallback list: a failed read is a failed discovery.
func (s *DiscoveryService) DiscoverSymbols(ctx context.Context) ([]string, error) {
	records, err := s.StockRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover symbols: %w", domain.StoreFailure(err))
	}

	symbols := make([]string, 0, len(records))
	for _, record := range records {
		if record == nil || record.Symbol == "" {
			continue
		}
		symbols = append(symbols, record.Symbol)
	}

	return domain.UniqueSymbols(symbols), nil
}
