// Package yahoo fetches quotes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/time/rate"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

const (
	DefaultBaseURL     = "https://query1.finance.yahoo.com"
	defaultHTTPTimeout = 10 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodyBytes       = 4 << 20
)

// Client is a domain.QuoteSource backed by the chart endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithRateLimit caps outgoing requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout sets the per-request timeout of the default http client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient constructs a chart API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchQuote retrieves the latest market data for symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo: %s: %w: %w", symbol, domain.ErrProvider, err)
	}

	body, err := c.get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	quote, err := parseChart(symbol, body)
	if err != nil {
		return nil, err
	}

	logx.WithContext(ctx).Debugw("quote fetched",
		logx.Field("symbol", symbol),
		logx.Field("price", quote.CurrentPrice.String()),
		logx.Field("previous_close", quote.PreviousClose.String()),
	)
	return quote, nil
}

func (c *Client) get(ctx context.Context, symbol string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "5d")
	params.Set("includePrePost", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w: %w", domain.ErrProvider, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %s: %w: %w", symbol, domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("yahoo: %s: read response: %w: %w", symbol, domain.ErrProvider, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, domain.ErrSymbolNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, domain.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("yahoo: %s: http status %d: %w", symbol, resp.StatusCode, domain.ErrProvider)
	}
	return body, nil
}

// parseChart turns a chart response into a Quote.
func parseChart(symbol string, body []byte) (*domain.Quote, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo: %s: malformed response: %w", symbol, domain.ErrProvider)
	}
	doc := gjson.ParseBytes(body)

	result := doc.Get("chart.result.0")
	if !result.Exists() {
		if desc := doc.Get("chart.error.description").String(); desc != "" {
			return nil, fmt.Errorf("yahoo: %s: %s: %w", symbol, desc, domain.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo: %s: empty result: %w", symbol, domain.ErrSymbolNotFound)
	}
	meta := result.Get("meta")

	current := positive(meta.Get("regularMarketPrice"))
	if current.IsZero() {
		current = positive(meta.Get("previousClose"))
	}
	if current.IsZero() {
		return nil, fmt.Errorf("yahoo: %s: no price in response: %w", symbol, domain.ErrSymbolNotFound)
	}

	quote := &domain.Quote{
		Symbol:            symbol,
		CompanyName:       firstString(meta, "longName", "shortName", "symbol"),
		CurrentPrice:      current,
		PreviousClose:     previousClose(result, meta, current),
		Volume:            firstInt(meta, "regularMarketVolume", "volume"),
		MarketCap:         meta.Get("marketCap").Int(),
		FiftyTwoWeekRange: weekRange(meta),
		Exchange:          domain.Exchange(firstString(meta, "exchangeName", "fullExchangeName")),
	}
	if quote.CompanyName == "" {
		quote.CompanyName = symbol
	}
	return quote, nil
}

// previousClose prefers the second-to-last valid daily close, then the meta fields,
// and finally the current price.
func previousClose(result, meta gjson.Result, current decimal.Decimal) decimal.Decimal {
	var closes []decimal.Decimal
	for _, c := range result.Get("indicators.quote.0.close").Array() {
		if d := positive(c); !d.IsZero() {
			closes = append(closes, d)
		}
	}

	switch {
	case len(closes) >= 2:
		return closes[len(closes)-2]
	case len(closes) == 1:
		if d := positive(meta.Get("chartPreviousClose")); !d.IsZero() {
			return d
		}
		return current
	}

	if d := positive(meta.Get("previousClose")); !d.IsZero() {
		return d
	}
	if d := positive(meta.Get("chartPreviousClose")); !d.IsZero() {
		return d
	}
	return current
}

func weekRange(meta gjson.Result) string {
	high := positive(meta.Get("fiftyTwoWeekHigh"))
	low := positive(meta.Get("fiftyTwoWeekLow"))
	if high.IsZero() && low.IsZero() {
		return ""
	}
	return fmt.Sprintf("$%s / $%s", high.StringFixed(2), low.StringFixed(2))
}

// positive returns the number held by r, or zero when r is missing, null or not positive.
func positive(r gjson.Result) decimal.Decimal {
	if r.Type != gjson.Number {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(r.Raw)
	if err != nil {
		d = decimal.NewFromFloat(r.Float())
	}
	if !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

func firstString(meta gjson.Result, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(meta.Get(k).String()); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(meta gjson.Result, keys ...string) int64 {
	for _, k := range keys {
		if v := meta.Get(k); v.Exists() {
			return v.Int()
		}
	}
	return 0
}
