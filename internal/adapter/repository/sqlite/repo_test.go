package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

type repositorySuite struct {
	suite.Suite
	db        *DB
	stocks    domain.StockRepository
	snapshots domain.SnapshotRepository
}

func TestRepositories(t *testing.T) {
	suite.Run(t, &repositorySuite{})
}

func (s *repositorySuite) SetupTest() {
	db, err := NewDB(filepath.Join(s.T().TempDir(), "stocksync.db"))
	s.Require().NoError(err)
	s.db = db
	s.stocks = NewStockRepository(db)
	s.snapshots = NewSnapshotRepository(db)
}

func (s *repositorySuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func quotedRecord(symbol string, price string, at time.Time) *domain.StockRecord {
	record := domain.NewStockRecord(symbol)
	record.ApplyQuote(&domain.Quote{
		CompanyName:       symbol + " Corp",
		CurrentPrice:      decimal.RequireFromString(price),
		PreviousClose:     decimal.RequireFromString("100"),
		Volume:            42,
		MarketCap:         1_000_000,
		FiftyTwoWeekRange: "$120.00 / $80.00",
		Exchange:          "NMS",
	}, at)
	return record
}

func (s *repositorySuite) TestRoundTrip() {
	ctx := context.Background()
	at := time.Date(2026, 3, 4, 5, 6, 7, 890, time.UTC)
	record := quotedRecord("MSFT", "110.125", at)

	s.Require().NoError(s.stocks.Upsert(ctx, record))

	stored, err := s.stocks.FindBySymbol(ctx, "MSFT")
	s.Require().NoError(err)
	s.Equal("MSFT Corp", stored.CompanyName)
	s.True(stored.CurrentPrice.Equal(decimal.RequireFromString("110.125")))
	s.True(stored.PriceChange.Equal(decimal.RequireFromString("10.125")))
	s.True(stored.ChangePercent.Equal(decimal.RequireFromString("10.125")))
	s.Equal(int64(42), stored.Volume)
	s.Equal(int64(1_000_000), stored.MarketCap)
	s.Equal("$120.00 / $80.00", stored.FiftyTwoWeekRange)
	s.Equal(domain.Exchange("NMS"), stored.Exchange)
	s.False(stored.HasPosition())
	s.True(at.Equal(stored.LastUpdated))
}

func (s *repositorySuite) TestPartialRecord() {
	ctx := context.Background()
	s.Require().NoError(s.stocks.Upsert(ctx, domain.NewStockRecord("NEW")))

	stored, err := s.stocks.FindBySymbol(ctx, "NEW")
	s.Require().NoError(err)
	s.True(stored.LastUpdated.IsZero())
	s.True(stored.CurrentPrice.IsZero())
	s.Equal(domain.ExchangeUnknown, stored.Exchange)
}

func (s *repositorySuite) TestUpsertKeepsPosition() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Require().NoError(s.stocks.Upsert(ctx, quotedRecord("AAPL", "150", now)))
	s.Require().NoError(s.stocks.UpdatePosition(ctx, "AAPL",
		decimal.NewNullDecimal(decimal.NewFromInt(10)),
		decimal.NewNullDecimal(decimal.RequireFromString("99.5"))))

	// A reconcile carrying a record without position data
	s.Require().NoError(s.stocks.Upsert(ctx, quotedRecord("AAPL", "160", now)))

	stored, err := s.stocks.FindBySymbol(ctx, "AAPL")
	s.Require().NoError(err)
	s.True(stored.CurrentPrice.Equal(decimal.NewFromInt(160)))
	s.True(stored.HasPosition())
	s.True(stored.SharesOwned.Decimal.Equal(decimal.NewFromInt(10)))
	s.True(stored.PurchasePrice.Decimal.Equal(decimal.RequireFromString("99.5")))

	s.Require().NoError(s.stocks.UpdatePosition(ctx, "AAPL", decimal.NullDecimal{}, decimal.NullDecimal{}))
	stored, err = s.stocks.FindBySymbol(ctx, "AAPL")
	s.Require().NoError(err)
	s.False(stored.HasPosition())
}

func (s *repositorySuite) TestMissingRecord() {
	ctx := context.Background()

	_, err := s.stocks.FindBySymbol(ctx, "NOPE")
	s.ErrorIs(err, domain.ErrRecordNotFound)

	err = s.stocks.UpdatePosition(ctx, "NOPE", decimal.NullDecimal{}, decimal.NullDecimal{})
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *repositorySuite) TestListAllOrdered() {
	ctx := context.Background()
	for _, symbol := range []string{"TSLA", "AAPL", "GOOGL"} {
		s.Require().NoError(s.stocks.Upsert(ctx, domain.NewStockRecord(symbol)))
	}

	records, err := s.stocks.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal("AAPL", records[0].Symbol)
	s.Equal("GOOGL", records[1].Symbol)
	s.Equal("TSLA", records[2].Symbol)
}

func (s *repositorySuite) TestConcurrentUpserts() {
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.stocks.Upsert(ctx, quotedRecord("AAPL", "150", time.Now())))
		}()
	}
	wg.Wait()

	records, err := s.stocks.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *repositorySuite) TestSnapshotsNewestFirst() {
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		snapshot := domain.NewPortfolioSnapshot(domain.PortfolioSummary{
			TotalValue:    decimal.NewFromInt(int64(1000 + i)),
			TotalInvested: decimal.NewFromInt(900),
			Positions:     i,
		}, at)
		s.Require().NoError(s.snapshots.Append(ctx, snapshot))
		ids = append(ids, snapshot.ID.String())
	}

	all, err := s.snapshots.List(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(ids[2], all[0].ID.String())
	s.Equal(ids[0], all[2].ID.String())
	s.True(all[0].TotalValue.Equal(decimal.NewFromInt(1002)))
	s.Equal(2, all[0].Positions)
	s.True(at.Equal(all[0].Date))

	latest, err := s.snapshots.List(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(latest, 1)
	s.Equal(ids[2], latest[0].ID.String())
}

func (s *repositorySuite) TestClosedStoreIsUnavailable() {
	s.Require().NoError(s.db.Close())

	_, err := s.stocks.ListAll(context.Background())
	s.ErrorIs(err, domain.ErrStoreUnavailable)
	s.Error(s.db.Ping(context.Background()))

	// reopen so TearDownTest can close cleanly
	db, err := NewDB(filepath.Join(s.T().TempDir(), "reopened.db"))
	s.Require().NoError(err)
	s.db = db
}
