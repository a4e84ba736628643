package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// StockSeeder makes sure a configured watchlist exists in the store
type StockSeeder struct {
	repo domain.StockRepository
}

// NewStockSeeder creates a new StockSeeder instance
func NewStockSeeder(repo domain.StockRepository) *StockSeeder {
	return &StockSeeder{
		repo: repo,
	}
}

// Seed inserts a watch-only, never reconciled record for every symbol the store lacks.
// Existing records are left alone. Returns the symbols that were created.
func (s *StockSeeder) Seed(ctx context.Context, symbols []string) ([]string, error) {
	created := make([]string, 0)

	for _, raw := range symbols {
		symbol, err := domain.NormalizeSymbol(raw)
		if err != nil {
			return created, err
		}

		_, err = s.repo.FindBySymbol(ctx, symbol)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to look up seed symbol %s: %w", symbol, domain.StoreFailure(err))
		}

		if err := s.repo.Upsert(ctx, domain.NewStockRecord(symbol)); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", symbol, domain.StoreFailure(err))
		}
		created = append(created, symbol)
	}

	return created, nil
}
