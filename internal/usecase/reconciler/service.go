package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/simaogato/stocksync-backend/internal/id"
	"github.com/simaogato/stocksync-backend/internal/usecase/health"
)

const defaultMaxConcurrency = 4

// Failure is the reason one symbol could not be reconciled
type Failure struct {
	Kind   domain.ErrorKind
	Reason string
}

// Result reports the outcome of a reconciliation batch, symbol by symbol
type Result struct {
	RunID   ulid.ULID
	Updated []string
	Failed  map[string]Failure
}

// ReconcilerService merges fresh quotes into stored stock records
type ReconcilerService struct {
	StockRepo      domain.StockRepository
	Quotes         domain.QuoteSource
	Health         *health.Tracker
	MaxConcurrency int
	Now            func() time.Time
}

// NewReconcilerService creates a new ReconcilerService instance
func NewReconcilerService(stockRepo domain.StockRepository, quotes domain.QuoteSource, maxConcurrency int) *ReconcilerService {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &ReconcilerService{
		StockRepo:      stockRepo,
		Quotes:         quotes,
		MaxConcurrency: maxConcurrency,
		Now:            time.Now,
	}
}

// Reconcile refreshes every given symbol independently, at most MaxConcurrency at a time.
// It never fails as a whole: each symbol ends up either in Updated or in Failed.
// A failed symbol keeps its previously stored record untouched. Upserts already
// committed when ctx is canceled stay committed.
func (s *ReconcilerService) Reconcile(ctx context.Context, symbols []string) *Result {
	result := &Result{
		RunID:   id.NewRunID(),
		Updated: make([]string, 0, len(symbols)),
		Failed:  make(map[string]Failure),
	}

	valid := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		symbol, err := domain.NormalizeSymbol(raw)
		if err != nil {
			result.Failed[raw] = failureOf(err)
			continue
		}
		valid = append(valid, symbol)
	}
	valid = domain.UniqueSymbols(valid)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.MaxConcurrency)

	for _, symbol := range valid {
		symbol := symbol
		g.Go(func() error {
			_, err := s.ReconcileOne(ctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[symbol] = failureOf(err)
				return nil
			}
			result.Updated = append(result.Updated, symbol)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Updated)
	s.logResult(ctx, result)

	return result
}

// ReconcileOne fetches a quote for an already normalized symbol and merges it into its record,
// creating the record when the symbol has none. The returned error carries its ErrorKind.
func (s *ReconcilerService) ReconcileOne(ctx context.Context, symbol string) (*domain.StockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", symbol, err)
	}

	quote, err := s.Quotes.FetchQuote(ctx, symbol)
	s.observe(ctx, health.ComponentQuotes, err)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}

	record, err := s.StockRepo.FindBySymbol(ctx, symbol)
	switch {
	case err == nil:
		record = record.Clone()
	case errors.Is(err, domain.ErrRecordNotFound):
		record = domain.NewStockRecord(symbol)
	default:
		err = domain.StoreFailure(err)
		s.observe(ctx, health.ComponentStore, err)
		return nil, fmt.Errorf("load record for %s: %w", symbol, err)
	}

	record.ApplyQuote(quote, s.Now())

	if err := s.StockRepo.Upsert(ctx, record); err != nil {
		err = domain.StoreFailure(err)
		s.observe(ctx, health.ComponentStore, err)
		return nil, fmt.Errorf("save record for %s: %w", symbol, err)
	}
	s.observe(ctx, health.ComponentStore, nil)

	return record, nil
}

// observe records an adapter outcome unless the caller's own context has ended.
// A caller abort is not an adapter fault.
func (s *ReconcilerService) observe(ctx context.Context, component health.Component, err error) {
	if ctx.Err() != nil {
		return
	}
	s.Health.Observe(component, err)
}

func (s *ReconcilerService) logResult(ctx context.Context, result *Result) {
	logger := logx.WithContext(ctx)
	for symbol, failure := range result.Failed {
		logger.Errorw("reconcile failed",
			logx.Field("run", result.RunID.String()),
			logx.Field("symbol", symbol),
			logx.Field("kind", string(failure.Kind)),
			logx.Field("reason", failure.Reason),
		)
	}
	logger.Infow("reconcile finished",
		logx.Field("run", result.RunID.String()),
		logx.Field("updated", len(result.Updated)),
		logx.Field("failed", len(result.Failed)),
	)
}

func failureOf(err error) Failure {
	return Failure{Kind: domain.KindOf(err), Reason: err.Error()}
}
