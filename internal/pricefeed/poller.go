package pricefeed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/nikolayk812/ghostshop/internal/metrics"
	"github.com/nikolayk812/ghostshop/internal/port"
)

const DefaultInterval = 30 * time.Second

type RateFetcher interface {
	FetchRates(ctx context.Context) (domain.Rates, error)
}

// Poller keeps the last known rates. Fetch failures never clear them.
type Poller struct {
	fetcher  RateFetcher
	interval time.Duration
	logger   *slog.Logger
	metrics  metrics.PriceFeedRecorder

	mu    sync.RWMutex
	rates domain.Rates
}

var _ port.RateSource = (*Poller)(nil)

type PollerOption func(*Poller)

func WithInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) { p.logger = logger }
}

func WithMetrics(recorder metrics.PriceFeedRecorder) PollerOption {
	return func(p *Poller) { p.metrics = recorder }
}

func NewPoller(fetcher RateFetcher, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: DefaultInterval,
		logger:   slog.Default(),
		metrics:  metrics.Nop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Rates() domain.Rates {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.rates
}

// Run fetches once immediately and then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("price poller started", slog.Duration("interval", p.interval))

	_ = p.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("price poller stopped")
			return
		case <-ticker.C:
			_ = p.Refresh(ctx)
		}
	}
}

// Refresh performs a single fetch. The error is returned for callers that care;
// it has already been logged and the previous rates are kept.
func (p *Poller) Refresh(ctx context.Context) error {
	rates, err := p.fetcher.FetchRates(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.metrics.RecordRateFetchFailure(failureReason(err))
		p.logger.Warn("price feed fetch failed, keeping last rates",
			slog.String("error", err.Error()),
		)
		return err
	}

	p.mu.Lock()
	p.rates = p.rates.Merge(rates)
	current := p.rates
	p.mu.Unlock()

	p.metrics.RecordRateFetchSuccess()
	p.metrics.RecordRate(string(domain.CryptoBTC), current.BTC.InexactFloat64())
	p.metrics.RecordRate(string(domain.CryptoXMR), current.XMR.InexactFloat64())
	p.logger.Debug("rates updated",
		slog.String("btc", current.BTC.String()),
		slog.String("xmr", current.XMR.String()),
	)
	return nil
}

func failureReason(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return "status"
	}
	return "fetch"
}
