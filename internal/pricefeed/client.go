// Package pricefeed polls a public ticker for the BTC and XMR quotes used at checkout.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://api.kraken.com/0/public/Ticker"
	defaultPairs    = "XBTEUR,XMREUR"
	maxBodySize     = 1 << 20
)

// The ticker answers with either the legacy or the short pair name.
var (
	btcKeys = []string{"XXBTZEUR", "XBTEUR"}
	xmrKeys = []string{"XXMRZEUR", "XMREUR"}
)

type tickerResponse struct {
	Error  []string              `json:"error"`
	Result map[string]tickerPair `json:"result"`
}

type tickerPair struct {
	// LastTrade is [price, lot volume].
	LastTrade []string `json:"c"`
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	limiter    *rate.Limiter
	logger     *slog.Logger
	now        func() time.Time
}

type ClientOption func(*Client)

func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithMinRequestGap spaces outgoing requests at least gap apart.
func WithMinRequestGap(gap time.Duration) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(gap), 1) }
}

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: httpClient,
		endpoint:   DefaultEndpoint,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRates returns the latest trade prices. A pair missing from the response
// is reported as zero; the call fails only when neither pair is present.
func (c *Client) FetchRates(ctx context.Context) (domain.Rates, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Rates{}, fmt.Errorf("limiter.Wait: %w", err)
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return domain.Rates{}, fmt.Errorf("url.Parse: %w", err)
	}
	q := reqURL.Query()
	q.Set("pair", defaultPairs)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return domain.Rates{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Rates{}, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Rates{}, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.Rates{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	var ticker tickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return domain.Rates{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if len(ticker.Error) > 0 {
		return domain.Rates{}, fmt.Errorf("ticker error: %s", strings.Join(ticker.Error, "; "))
	}

	btc, btcOK := c.lastTrade(ticker.Result, btcKeys)
	xmr, xmrOK := c.lastTrade(ticker.Result, xmrKeys)
	if !btcOK && !xmrOK {
		return domain.Rates{}, fmt.Errorf("ticker response has no known pairs")
	}

	return domain.Rates{BTC: btc, XMR: xmr, UpdatedAt: c.now()}, nil
}

func (c *Client) lastTrade(result map[string]tickerPair, keys []string) (decimal.Decimal, bool) {
	for _, key := range keys {
		pair, ok := result[key]
		if !ok || len(pair.LastTrade) == 0 {
			continue
		}

		price, err := decimal.NewFromString(pair.LastTrade[0])
		if err != nil || !price.IsPositive() {
			c.logger.Warn("ignoring malformed ticker price",
				slog.String("pair", key),
				slog.String("value", pair.LastTrade[0]),
			)
			continue
		}
		return price, true
	}
	return decimal.Zero, false
}

type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ticker returned status %d", e.StatusCode)
}
