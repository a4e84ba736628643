package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stocksync-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/simaogato/stocksync-backend/internal/usecase/health"
)

// MockQuoteSource is a mock implementation of QuoteSource for testing
type MockQuoteSource struct {
	mock.Mock
}

func (m *MockQuoteSource) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// MockStockRepository is a mock implementation of StockRepository for testing
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.StockRecord, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockRecord), args.Error(1)
}

func (m *MockStockRepository) ListAll(ctx context.Context) ([]*domain.StockRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StockRecord), args.Error(1)
}

func (m *MockStockRepository) Upsert(ctx context.Context, record *domain.StockRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStockRepository) UpdatePosition(ctx context.Context, symbol string, shares, purchasePrice decimal.NullDecimal) error {
	args := m.Called(ctx, symbol, shares, purchasePrice)
	return args.Error(0)
}

func quote(symbol string, current, previous string) *domain.Quote {
	return &domain.Quote{
		Symbol:        symbol,
		CompanyName:   symbol + " Corp",
		CurrentPrice:  decimal.RequireFromString(current),
		PreviousClose: decimal.RequireFromString(previous),
		Volume:        1000,
		Exchange:      "NMS",
	}
}

func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func TestReconcile_CreatesMissingRecord(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 2)

	mockQuotes.On("FetchQuote", ctx, "ZZZ").Return(quote("ZZZ", "42.00", "40.00"), nil)

	result := service.Reconcile(ctx, []string{"zzz"})

	assert.Equal(t, []string{"ZZZ"}, result.Updated)
	assert.Empty(t, result.Failed)
	assert.NotEqual(t, ulid.ULID{}, result.RunID)

	record, err := repo.FindBySymbol(ctx, "ZZZ")
	require.NoError(t, err)
	assert.Equal(t, "ZZZ Corp", record.CompanyName)
	assert.True(t, record.PriceChange.Equal(decimal.NewFromInt(2)))
	assert.True(t, record.ChangePercent.Equal(decimal.NewFromInt(5)))
	assert.False(t, record.LastUpdated.IsZero())
	assert.False(t, record.HasPosition())
}

func TestReconcile_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 4)

	// B already has a good record from an earlier refresh
	prior := domain.NewStockRecord("BBB")
	prior.CompanyName = "BBB Holdings"
	prior.CurrentPrice = decimal.NewFromInt(180)
	prior.PreviousClose = decimal.NewFromInt(175)
	prior.RecomputeDerived()
	prior.LastUpdated = time.Date(2025, 3, 13, 16, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, prior))

	mockQuotes.On("FetchQuote", ctx, "AAA").Return(quote("AAA", "150", "140"), nil)
	mockQuotes.On("FetchQuote", ctx, "BBB").Return(nil, fmt.Errorf("upstream 503: %w", domain.ErrProvider))

	result := service.Reconcile(ctx, []string{"AAA", "BBB"})

	assert.Equal(t, []string{"AAA"}, result.Updated)
	require.Contains(t, result.Failed, "BBB")
	assert.Equal(t, domain.KindProviderError, result.Failed["BBB"].Kind)
	assert.Contains(t, result.Failed["BBB"].Reason, "upstream 503")

	unchanged, err := repo.FindBySymbol(ctx, "BBB")
	require.NoError(t, err)
	assert.Equal(t, *prior, *unchanged)
}

func TestReconcile_ErrorKinds(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 4)

	mockQuotes.On("FetchQuote", ctx, "GONE").Return(nil, fmt.Errorf("GONE: %w", domain.ErrSymbolNotFound))
	mockQuotes.On("FetchQuote", ctx, "SLOW").Return(nil, fmt.Errorf("SLOW: %w", domain.ErrRateLimited))

	result := service.Reconcile(ctx, []string{"GONE", "SLOW", "bad symbol!"})

	assert.Empty(t, result.Updated)
	assert.Equal(t, domain.KindNotFound, result.Failed["GONE"].Kind)
	assert.Equal(t, domain.KindRateLimited, result.Failed["SLOW"].Kind)
	assert.Equal(t, domain.KindValidationError, result.Failed["bad symbol!"].Kind)

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "failed symbols never create records")
}

func TestReconcile_Idempotent(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 1)
	service.Now = fixedClock(time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC))

	mockQuotes.On("FetchQuote", ctx, "AAA").Return(quote("AAA", "101.25", "100.00"), nil)

	service.Reconcile(ctx, []string{"AAA"})
	first, err := repo.FindBySymbol(ctx, "AAA")
	require.NoError(t, err)

	service.Reconcile(ctx, []string{"AAA"})
	second, err := repo.FindBySymbol(ctx, "AAA")
	require.NoError(t, err)

	assert.True(t, first.CurrentPrice.Equal(second.CurrentPrice))
	assert.True(t, first.PriceChange.Equal(second.PriceChange))
	assert.True(t, first.ChangePercent.Equal(second.ChangePercent))
	assert.True(t, second.LastUpdated.After(first.LastUpdated))

	first.LastUpdated = second.LastUpdated
	assert.Equal(t, *first, *second)
}

func TestReconcile_ZeroPreviousClose(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 1)

	mockQuotes.On("FetchQuote", ctx, "IPO").Return(quote("IPO", "25", "0"), nil)

	result := service.Reconcile(ctx, []string{"IPO"})

	assert.Equal(t, []string{"IPO"}, result.Updated)
	record, err := repo.FindBySymbol(ctx, "IPO")
	require.NoError(t, err)
	assert.True(t, record.ChangePercent.IsZero())
}

func TestReconcile_KeepsPositionFields(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 1)

	require.NoError(t, repo.Upsert(ctx, domain.NewStockRecord("AAA")))
	require.NoError(t, repo.UpdatePosition(ctx, "AAA",
		decimal.NewNullDecimal(decimal.NewFromInt(10)),
		decimal.NewNullDecimal(decimal.NewFromInt(100)),
	))
	mockQuotes.On("FetchQuote", ctx, "AAA").Return(quote("AAA", "150", "149"), nil)

	service.Reconcile(ctx, []string{"AAA"})

	record, err := repo.FindBySymbol(ctx, "AAA")
	require.NoError(t, err)
	assert.True(t, record.SharesOwned.Decimal.Equal(decimal.NewFromInt(10)))
	assert.True(t, record.PurchasePrice.Decimal.Equal(decimal.NewFromInt(100)))
}

func TestReconcile_StoreWriteFailure(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	mockRepo := new(MockStockRepository)
	tracker := health.NewTracker()
	service := NewReconcilerService(mockRepo, mockQuotes, 1)
	service.Health = tracker

	mockQuotes.On("FetchQuote", ctx, "AAA").Return(quote("AAA", "10", "9"), nil)
	mockRepo.On("FindBySymbol", ctx, "AAA").Return(nil, domain.ErrRecordNotFound)
	mockRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.StockRecord")).Return(errors.New("pq: connection reset"))

	result := service.Reconcile(ctx, []string{"AAA"})

	assert.Empty(t, result.Updated)
	assert.Equal(t, domain.KindStoreUnavailable, result.Failed["AAA"].Kind)

	probe, ok := tracker.Last(health.ComponentStore)
	require.True(t, ok)
	assert.False(t, probe.Healthy)
	probe, ok = tracker.Last(health.ComponentQuotes)
	require.True(t, ok)
	assert.True(t, probe.Healthy)
}

func TestReconcile_StoreReadFailureSkipsUpsert(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	mockRepo := new(MockStockRepository)
	service := NewReconcilerService(mockRepo, mockQuotes, 1)

	mockQuotes.On("FetchQuote", ctx, "AAA").Return(quote("AAA", "10", "9"), nil)
	mockRepo.On("FindBySymbol", ctx, "AAA").Return(nil, errors.New("timeout"))

	result := service.Reconcile(ctx, []string{"AAA"})

	assert.Equal(t, domain.KindStoreUnavailable, result.Failed["AAA"].Kind)
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// countingQuotes tracks how many fetches are in flight at once
type countingQuotes struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *countingQuotes) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return quote(symbol, "10", "10"), nil
}

func TestReconcile_BoundedFanOut(t *testing.T) {
	ctx := context.Background()
	quotes := &countingQuotes{}
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, quotes, 3)

	symbols := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		symbols = append(symbols, fmt.Sprintf("S%02d", i))
	}

	result := service.Reconcile(ctx, symbols)

	assert.Len(t, result.Updated, 20)
	assert.Empty(t, result.Failed)
	assert.LessOrEqual(t, quotes.peak.Load(), int32(3))
}

func TestReconcile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 2)

	result := service.Reconcile(ctx, []string{"AAA", "BBB"})

	assert.Empty(t, result.Updated)
	assert.Len(t, result.Failed, 2)
	mockQuotes.AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
}

// blockingQuotes waits for the caller's context and fails the way the HTTP client does
type blockingQuotes struct{}

func (blockingQuotes) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("yahoo: %s: %w: %w", symbol, domain.ErrProvider, ctx.Err())
}

func TestReconcile_CallerTimeoutLeavesHealthUntouched(t *testing.T) {
	tracker := health.NewTracker()
	tracker.Observe(health.ComponentQuotes, nil)
	tracker.Observe(health.ComponentStore, nil)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, blockingQuotes{}, 2)
	service.Health = tracker

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	result := service.Reconcile(ctx, []string{"AAPL"})

	assert.Equal(t, domain.KindProviderError, result.Failed["AAPL"].Kind)

	probe, ok := tracker.Last(health.ComponentQuotes)
	require.True(t, ok)
	assert.True(t, probe.Healthy, "a caller-side timeout must not mark the quote source unhealthy")
	probe, ok = tracker.Last(health.ComponentStore)
	require.True(t, ok)
	assert.True(t, probe.Healthy)
}

func TestReconcile_ProviderTimeoutIsObserved(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	tracker := health.NewTracker()
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 1)
	service.Health = tracker

	mockQuotes.On("FetchQuote", ctx, "AAPL").
		Return(nil, fmt.Errorf("yahoo: AAPL: %w: %w", domain.ErrProvider, context.DeadlineExceeded))

	service.Reconcile(ctx, []string{"AAPL"})

	probe, ok := tracker.Last(health.ComponentQuotes)
	require.True(t, ok)
	assert.False(t, probe.Healthy)
}

func TestReconcile_DuplicateSymbolsReconciledOnce(t *testing.T) {
	ctx := context.Background()
	mockQuotes := new(MockQuoteSource)
	repo := memory.NewStockRepository(memory.NewStore())
	service := NewReconcilerService(repo, mockQuotes, 2)

	mockQuotes.On("FetchQuote", ctx, "AAA").Return(quote("AAA", "10", "9"), nil).Once()

	result := service.Reconcile(ctx, []string{"AAA", "aaa", " AAA "})

	assert.Equal(t, []string{"AAA"}, result.Updated)
	mockQuotes.AssertExpectations(t)
}
