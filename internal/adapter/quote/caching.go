package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/collection"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

type caching struct {
	source domain.QuoteSource
	cache  *collection.Cache
}

// NewCaching serves repeated requests for a symbol from memory for ttl.
// Only successful quotes are cached. ttl <= 0 returns source unchanged.
func NewCaching(source domain.QuoteSource, ttl time.Duration) (domain.QuoteSource, error) {
	if ttl <= 0 {
		return source, nil
	}
	cache, err := collection.NewCache(ttl, collection.WithName("quotes"))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote cache: %w", err)
	}
	return &caching{source: source, cache: cache}, nil
}

func (c *caching) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if v, ok := c.cache.Get(symbol); ok {
		q := *v.(*domain.Quote)
		return &q, nil
	}

	quote, err := c.source.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stored := *quote
	c.cache.Set(symbol, &stored)
	return quote, nil
}
