package health

import (
	"context"
	"errors"
	"time"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// Status is the overall health verdict
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
)

// Report describes the state of both adapters and the freshness of tracked records
type Report struct {
	Status       Status
	Store        Probe
	Quotes       Probe
	QuotesProbed bool // false until a quote call has been observed
	Tracked      int
	StaleSymbols []string
	CheckedAt    time.Time
}

// HealthService answers health checks
type HealthService struct {
	StockRepo domain.StockRepository
	Store     domain.Pinger // optional active store probe
	Tracker   *Tracker

	// QuoteProbe and ProbeSymbol enable an active quote probe. Without them the last
	// quote call observed by the tracker decides the quote verdict.
	QuoteProbe  domain.QuoteSource
	ProbeSymbol string

	// StaleAfter lists records not reconciled within the window. Zero disables it.
	// Staleness is reported but never degrades the status.
	StaleAfter time.Duration
	Now        func() time.Time
}

// NewHealthService creates a new HealthService instance
func NewHealthService(stockRepo domain.StockRepository, tracker *Tracker, staleAfter time.Duration) *HealthService {
	svc := &HealthService{
		StockRepo:  stockRepo,
		Tracker:    tracker,
		StaleAfter: staleAfter,
		Now:        time.Now,
	}
	if pinger, ok := stockRepo.(domain.Pinger); ok {
		svc.Store = pinger
	}
	return svc
}

// Check probes the store, reads or refreshes the quote verdict and lists stale records.
// Status is degraded when the store or the quote adapter's last probe failed.
func (s *HealthService) Check(ctx context.Context) *Report {
	now := s.Now()
	report := &Report{Status: StatusOK, CheckedAt: now, StaleSymbols: make([]string, 0)}

	var storeErr error
	if s.Store != nil {
		storeErr = s.Store.Ping(ctx)
	}
	var records []*domain.StockRecord
	if storeErr == nil {
		records, storeErr = s.StockRepo.ListAll(ctx)
	}
	if ctx.Err() == nil {
		s.Tracker.Observe(ComponentStore, domain.StoreFailure(storeErr))
	}
	report.Store = probeOf(storeErr, now)

	for _, record := range records {
		report.Tracked++
		if record.IsStale(now, s.StaleAfter) {
			report.StaleSymbols = append(report.StaleSymbols, record.Symbol)
		}
	}

	if s.QuoteProbe != nil && s.ProbeSymbol != "" {
		_, err := s.QuoteProbe.FetchQuote(ctx, s.ProbeSymbol)
		if ctx.Err() == nil {
			s.Tracker.Observe(ComponentQuotes, err)
		}
	}
	report.Quotes, report.QuotesProbed = s.Tracker.Last(ComponentQuotes)
	if !report.QuotesProbed {
		report.Quotes = Probe{Healthy: true}
	}

	if !report.Store.Healthy || !report.Quotes.Healthy {
		report.Status = StatusDegraded
	}

	return report
}

func probeOf(err error, at time.Time) Probe {
	if err == nil {
		return Probe{Healthy: true, CheckedAt: at}
	}
	if errors.Is(err, context.Canceled) {
		return Probe{Healthy: false, CheckedAt: at, Error: "probe canceled"}
	}
	return Probe{Healthy: false, CheckedAt: at, Error: err.Error()}
}
