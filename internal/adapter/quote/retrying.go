// Package quote holds decorators that add retries and caching to any domain.QuoteSource.
package quote

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

type retrying struct {
	source          domain.QuoteSource
	maxRetries      uint64
	initialInterval time.Duration
}

// NewRetrying retries transient failures (RateLimited, ProviderError) with exponential backoff.
// NotFound and validation failures are returned at once. maxRetries <= 0 returns source unchanged.
func NewRetrying(source domain.QuoteSource, maxRetries int, initialInterval time.Duration) domain.QuoteSource {
	if maxRetries <= 0 {
		return source
	}
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}
	return &retrying{
		source:          source,
		maxRetries:      uint64(maxRetries),
		initialInterval: initialInterval,
	}
}

func (r *retrying) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var quote *domain.Quote
	operation := func() error {
		q, err := r.source.FetchQuote(ctx, symbol)
		if err != nil {
			if !domain.KindOf(err).Transient() || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		quote = q
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialInterval
	policy.MaxInterval = 16 * r.initialInterval
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		logx.WithContext(ctx).Infow("retrying quote fetch",
			logx.Field("symbol", symbol),
			logx.Field("kind", string(domain.KindOf(err))),
			logx.Field("wait", wait.String()),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx), notify)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
