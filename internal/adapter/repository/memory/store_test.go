package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRepository_UpsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository(NewStore())

	_, err := repo.FindBySymbol(ctx, "AAPL")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	record := domain.NewStockRecord("AAPL")
	record.CurrentPrice = decimal.NewFromInt(200)
	require.NoError(t, repo.Upsert(ctx, record))

	// Mutating the caller's copy must not leak into the store
	record.CurrentPrice = decimal.NewFromInt(1)

	found, err := repo.FindBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, found.CurrentPrice.Equal(decimal.NewFromInt(200)))
}

func TestStockRepository_UpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository(NewStore())

	require.NoError(t, repo.Upsert(ctx, domain.NewStockRecord("AAPL")))
	require.NoError(t, repo.UpdatePosition(ctx, "AAPL",
		decimal.NewNullDecimal(decimal.NewFromInt(10)),
		decimal.NewNullDecimal(decimal.NewFromInt(150)),
	))

	// A reconcile that read the record before the position was set
	stale := domain.NewStockRecord("AAPL")
	stale.CurrentPrice = decimal.NewFromInt(210)
	require.NoError(t, repo.Upsert(ctx, stale))

	found, err := repo.FindBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, found.HasPosition())
	assert.True(t, found.CurrentPrice.Equal(decimal.NewFromInt(210)))
}

func TestStockRepository_UpdatePositionMissing(t *testing.T) {
	repo := NewStockRepository(NewStore())

	err := repo.UpdatePosition(context.Background(), "NOPE", decimal.NullDecimal{}, decimal.NullDecimal{})

	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStockRepository_ListAllSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository(NewStore())

	for _, symbol := range []string{"NVDA", "AAPL", "MSFT"} {
		require.NoError(t, repo.Upsert(ctx, domain.NewStockRecord(symbol)))
	}

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)

	symbols := make([]string, 0, len(records))
	for _, r := range records {
		symbols = append(symbols, r.Symbol)
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, symbols)
}

func TestStockRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewStockRepository(NewStore())

	_, err := repo.ListAll(ctx)

	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))
}

func TestSnapshotRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(NewStore())
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		snap := &domain.PortfolioSnapshot{
			ID:         uuid.New(),
			Date:       start.AddDate(0, 0, i),
			TotalValue: decimal.NewFromInt(int64(1000 + i)),
		}
		ids = append(ids, snap.ID)
		require.NoError(t, repo.Append(ctx, snap))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")

	latest, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}
