// Package app assembles stores, quote sources and services from a Config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/simaogato/stocksync-backend/internal/adapter/quote"
	"github.com/simaogato/stocksync-backend/internal/adapter/quote/yahoo"
	"github.com/simaogato/stocksync-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stocksync-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stocksync-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/stocksync-backend/internal/config"
	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/simaogato/stocksync-backend/internal/usecase/discovery"
	"github.com/simaogato/stocksync-backend/internal/usecase/health"
	"github.com/simaogato/stocksync-backend/internal/usecase/portfolio"
	"github.com/simaogato/stocksync-backend/internal/usecase/reconciler"
	"github.com/simaogato/stocksync-backend/internal/usecase/seeder"
	"github.com/simaogato/stocksync-backend/internal/usecase/snapshot"
)

// App holds the wired services of one process.
type App struct {
	Config    *config.Config
	Portfolio *portfolio.PortfolioService
	Health    *health.HealthService
	Seeder    *seeder.StockSeeder

	closers []func() error
}

// Stores bundles the repositories of one backing store.
type Stores struct {
	Stocks    domain.StockRepository
	Snapshots domain.SnapshotRepository
	Pinger    domain.Pinger
	Close     func() error
}

// SetupLogging configures logx from the log section.
func SetupLogging(cfg config.LogConfig) {
	logx.MustSetup(logx.LogConf{
		ServiceName: cfg.ServiceName,
		Mode:        "console",
		Encoding:    cfg.Encoding,
		Level:       cfg.Level,
	})
}

// OpenStores opens the store selected by cfg.Driver and makes sure its schema exists.
func OpenStores(ctx context.Context, cfg config.StoreConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &Stores{
			Stocks:    memory.NewStockRepository(store),
			Snapshots: memory.NewSnapshotRepository(store),
			Pinger:    store,
			Close:     func() error { return nil },
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.NewDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", domain.StoreFailure(err))
		}
		return &Stores{
			Stocks:    sqlite.NewStockRepository(db),
			Snapshots: sqlite.NewSnapshotRepository(db),
			Pinger:    db,
			Close:     db.Close,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", domain.StoreFailure(err))
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, domain.StoreFailure(err)
		}
		return &Stores{
			Stocks:    postgres.NewStockRepository(db),
			Snapshots: postgres.NewSnapshotRepository(db),
			Pinger:    db,
			Close:     db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q: %w", cfg.Driver, domain.ErrValidation)
}

// NewQuoteSource builds the chart client wrapped with retries and a TTL cache.
// The bare client is returned too, for probes that must not hit the cache.
func NewQuoteSource(cfg config.QuotesConfig) (source domain.QuoteSource, bare domain.QuoteSource, err error) {
	client := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.BaseURL),
		yahoo.WithTimeout(cfg.Timeout),
		yahoo.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
	)

	source = quote.NewRetrying(client, cfg.MaxRetries, cfg.RetryBackoff)
	source, err = quote.NewCaching(source, cfg.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return source, client, nil
}

// Build wires every service on top of the configured store and quote source.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := OpenStores(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	quotes, probe, err := NewQuoteSource(cfg.Quotes)
	if err != nil {
		stores.Close()
		return nil, err
	}

	return Assemble(cfg, stores, quotes, probe), nil
}

// Assemble wires services over already built adapters.
func Assemble(cfg *config.Config, stores *Stores, quotes, probe domain.QuoteSource) *App {
	tracker := health.NewTracker()

	reconcilerService := reconciler.NewReconcilerService(stores.Stocks, quotes, cfg.Reconcile.MaxConcurrency)
	reconcilerService.Health = tracker

	portfolioService := portfolio.NewPortfolioService(
		stores.Stocks,
		discovery.NewDiscoveryService(stores.Stocks),
		reconcilerService,
		snapshot.NewSnapshotService(stores.Snapshots),
	)

	healthService := health.NewHealthService(stores.Stocks, tracker, cfg.Health.StaleAfter)
	healthService.Store = stores.Pinger
	if cfg.Health.ProbeSymbol != "" && probe != nil {
		healthService.QuoteProbe = probe
		healthService.ProbeSymbol = cfg.Health.ProbeSymbol
	}

	return &App{
		Config:    cfg,
		Portfolio: portfolioService,
		Health:    healthService,
		Seeder:    seeder.NewStockSeeder(stores.Stocks),
		closers:   []func() error{stores.Close},
	}
}

// Seed creates watch-only records for the configured seed symbols.
func (a *App) Seed(ctx context.Context) ([]string, error) {
	if len(a.Config.SeedSymbols) == 0 {
		return nil, nil
	}
	return a.Seeder.Seed(ctx, a.Config.SeedSymbols)
}

// Close releases the store.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
