package aggregator

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func held(symbol string, shares, purchasePrice, currentPrice int64) *domain.StockRecord {
	return &domain.StockRecord{
		Symbol:        symbol,
		CurrentPrice:  decimal.NewFromInt(currentPrice),
		SharesOwned:   decimal.NewNullDecimal(decimal.NewFromInt(shares)),
		PurchasePrice: decimal.NewNullDecimal(decimal.NewFromInt(purchasePrice)),
	}
}

func watchOnly(symbol string, currentPrice int64) *domain.StockRecord {
	return &domain.StockRecord{
		Symbol:       symbol,
		CurrentPrice: decimal.NewFromInt(currentPrice),
	}
}

func TestAggregate_TwoPositions(t *testing.T) {
	records := []*domain.StockRecord{
		held("AAA", 10, 100, 150),
		held("BBB", 5, 200, 180),
	}

	summary := Aggregate(records)

	assert.True(t, summary.TotalInvested.Equal(decimal.NewFromInt(2000)), "invested: %s", summary.TotalInvested)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(2400)), "value: %s", summary.TotalValue)
	assert.True(t, summary.TotalGainLoss.Equal(decimal.NewFromInt(400)), "gain/loss: %s", summary.TotalGainLoss)
	assert.True(t, summary.ReturnPercent.Equal(decimal.NewFromInt(20)), "return: %s", summary.ReturnPercent)
	assert.Equal(t, 2, summary.Positions)

	assert.Len(t, summary.Holdings, 2)
	assert.Equal(t, "AAA", summary.Holdings[0].Symbol)
	assert.True(t, summary.Holdings[0].GainLoss.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "BBB", summary.Holdings[1].Symbol)
	assert.True(t, summary.Holdings[1].GainLoss.Equal(decimal.NewFromInt(-100)))
}

func TestAggregate_WatchOnlyExcluded(t *testing.T) {
	partial := watchOnly("CCC", 50)
	partial.SharesOwned = decimal.NewNullDecimal(decimal.NewFromInt(3))

	records := []*domain.StockRecord{
		held("AAA", 10, 100, 150),
		watchOnly("ZZZ", 999),
		partial,
	}

	summary := Aggregate(records)

	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.TotalInvested.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, summary.Positions)
}

func TestAggregate_EmptyYieldsZeroSummary(t *testing.T) {
	for name, records := range map[string][]*domain.StockRecord{
		"nil":        nil,
		"watch-only": {watchOnly("AAA", 10)},
	} {
		t.Run(name, func(t *testing.T) {
			summary := Aggregate(records)

			assert.True(t, summary.TotalValue.IsZero())
			assert.True(t, summary.TotalInvested.IsZero())
			assert.True(t, summary.TotalGainLoss.IsZero())
			assert.True(t, summary.ReturnPercent.IsZero())
			assert.Equal(t, 0, summary.Positions)
			assert.NotNil(t, summary.Holdings)
		})
	}
}

func TestAggregate_ZeroInvestedDoesNotDivide(t *testing.T) {
	// Shares received at no cost
	records := []*domain.StockRecord{held("GIFT", 10, 0, 25)}

	var summary domain.PortfolioSummary
	assert.NotPanics(t, func() { summary = Aggregate(records) })

	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(250)))
	assert.True(t, summary.TotalInvested.IsZero())
	assert.True(t, summary.ReturnPercent.IsZero())
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	records := []*domain.StockRecord{held("AAA", 10, 100, 150)}
	before := *records[0]

	Aggregate(records)

	assert.Equal(t, before, *records[0])
}

func TestAggregate_ConcurrentCallsAreDeterministic(t *testing.T) {
	records := []*domain.StockRecord{
		held("AAA", 10, 100, 150),
		held("BBB", 5, 200, 180),
	}
	want := Aggregate(records)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Aggregate(records)
			assert.True(t, want.TotalValue.Equal(got.TotalValue))
			assert.True(t, want.ReturnPercent.Equal(got.ReturnPercent))
		}()
	}
	wg.Wait()
}

func TestAggregate_NeverReconciledHoldingIsUnpriced(t *testing.T) {
	summary := Aggregate([]*domain.StockRecord{held("NEW", 4, 50, 0), held("AAA", 1, 10, 12)})

	assert.True(t, summary.TotalInvested.Equal(decimal.NewFromInt(210)), "invested: %s", summary.TotalInvested)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(12)), "value: %s", summary.TotalValue)
	assert.True(t, summary.Holdings[0].Unpriced)
	assert.False(t, summary.Holdings[1].Unpriced)
}
