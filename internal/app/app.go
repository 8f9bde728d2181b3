// Package app wires configuration, storage, the cart, the price feed and
// checkout into the ghostshop daemon.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/ghostshop/internal/cart"
	"github.com/nikolayk812/ghostshop/internal/checkout"
	"github.com/nikolayk812/ghostshop/internal/config"
	"github.com/nikolayk812/ghostshop/internal/logger"
	"github.com/nikolayk812/ghostshop/internal/metrics"
	"github.com/nikolayk812/ghostshop/internal/port"
	"github.com/nikolayk812/ghostshop/internal/pricefeed"
	"github.com/nikolayk812/ghostshop/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/language"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	pool     *pgxpool.Pool

	Cart     *cart.Store
	Poller   *pricefeed.Poller
	Checkout *checkout.Checkout
}

// New builds every component. Postgres is used when database.url is set,
// otherwise the cart lives in memory for the life of the process.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{
		cfg:      cfg,
		logger:   log,
		registry: prometheus.NewRegistry(),
	}

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(a.registry)

	storage, err := a.newStorage(ctx)
	if err != nil {
		return nil, err
	}

	a.Cart = cart.New(ctx, storage,
		cart.WithKey(cfg.Storage.Key),
		cart.WithLogger(log.With(slog.String("component", "cart"))),
		cart.WithMetrics(collector),
	)

	client := pricefeed.NewClient(
		&http.Client{Timeout: cfg.PriceFeed.Timeout},
		pricefeed.WithEndpoint(cfg.PriceFeed.Endpoint),
		pricefeed.WithMinRequestGap(cfg.PriceFeed.MinRequestGap),
		pricefeed.WithClientLogger(log.With(slog.String("component", "pricefeed"))),
	)
	a.Poller = pricefeed.NewPoller(client,
		pricefeed.WithInterval(cfg.PriceFeed.Interval),
		pricefeed.WithLogger(log.With(slog.String("component", "poller"))),
		pricefeed.WithMetrics(collector),
	)

	a.Checkout = checkout.New(a.Cart, a.Poller,
		checkout.WithLogger(log.With(slog.String("component", "checkout"))),
		checkout.WithMetrics(collector),
		checkout.WithTimings(cfg.Checkout.StepInterval, cfg.Checkout.FinalDelay),
		checkout.WithWallets(cfg.Checkout.WalletMap()),
	)

	return a, nil
}

func (a *App) newStorage(ctx context.Context) (port.CartStorage, error) {
	if a.cfg.Database.URL == "" {
		a.logger.Info("using in-memory cart storage")
		return repository.NewMemoryStorage(), nil
	}

	pool, err := pgxpool.New(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	a.pool = pool
	a.logger.Info("using postgres cart storage")
	return repository.NewCartStorage(pool), nil
}

// Handler serves /metrics and /healthz.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler(a.registry))
	mux.HandleFunc("GET /healthz", a.handleHealth)
	return mux
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.pool != nil {
		if err := a.pool.Ping(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// Serve runs the price poller and the HTTP endpoint until ctx is cancelled.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Go(func() { a.Poller.Run(ctx) })

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", slog.String("addr", listener.Addr().String()))
		serveErr <- server.Serve(listener)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		err = fmt.Errorf("server.Serve: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		err = errors.Join(err, fmt.Errorf("server.Shutdown: %w", shutdownErr))
	}

	wg.Wait()
	a.logger.Info("http server stopped")
	return err
}

// Close stops pending checkout timers and releases the database pool.
func (a *App) Close() {
	a.Checkout.Close()
	if a.pool != nil {
		a.pool.Close()
	}
}

// Run is the binary entry point; args excludes the program name.
func Run(ctx context.Context, w io.Writer, args []string) error {
	opts, err := ParseArgs(args, w)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if opts.Command == CommandHealthcheck {
		return runHealthcheck(ctx, cfg.HTTP.Addr)
	}

	log, err := logger.SetupDefault(w, cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return fmt.Errorf("logger.SetupDefault: %w", err)
	}

	a, err := New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app.New: %w", err)
	}
	defer a.Close()

	log.Info("starting ghostshop", slog.String("command", string(opts.Command)))

	switch opts.Command {
	case CommandDemo:
		return a.Demo(ctx, language.Make(opts.Language), w)
	default:
		listener, err := net.Listen("tcp", cfg.HTTP.Addr)
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}
		return a.Serve(ctx, listener)
	}
}

func runHealthcheck(ctx context.Context, addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("net.SplitHostPort: %w", err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	url := "http://" + net.JoinHostPort(host, port) + "/healthz"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}
