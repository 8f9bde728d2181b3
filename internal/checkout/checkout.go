// Package checkout drives the forward-only purchase flow:
// shipping -> payment -> processing -> success.
//
// Processing is a scripted demo: no payment gateway or blockchain is consulted
// and every confirmed transaction succeeds.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/ghostshop/internal/clock"
	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/nikolayk812/ghostshop/internal/metrics"
	"github.com/nikolayk812/ghostshop/internal/port"
)

const (
	DefaultStepInterval = 800 * time.Millisecond
	DefaultFinalDelay   = time.Second
)

// CartService is the part of the cart store checkout depends on.
type CartService interface {
	Total() domain.Money
	Clear(ctx context.Context)
}

type Checkout struct {
	mu        sync.Mutex
	session   *session
	gen       uint64
	observers []func(Snapshot)

	cart         CartService
	rates        port.RateSource
	clock        clock.Clock
	logger       *slog.Logger
	metrics      metrics.CheckoutRecorder
	stepInterval time.Duration
	finalDelay   time.Duration
	wallets      map[domain.Crypto]string
	newOrderID   func() string
}

type Option func(*Checkout)

func WithClock(c clock.Clock) Option {
	return func(co *Checkout) { co.clock = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(co *Checkout) { co.logger = logger }
}

func WithMetrics(recorder metrics.CheckoutRecorder) Option {
	return func(co *Checkout) { co.metrics = recorder }
}

// WithTimings sets the delay between log messages and the pause before success.
func WithTimings(stepInterval, finalDelay time.Duration) Option {
	return func(co *Checkout) {
		co.stepInterval = stepInterval
		co.finalDelay = finalDelay
	}
}

// WithWallets overrides target addresses; cryptos missing from wallets keep the default.
func WithWallets(wallets map[domain.Crypto]string) Option {
	return func(co *Checkout) {
		for c, addr := range wallets {
			if addr != "" {
				co.wallets[c] = addr
			}
		}
	}
}

func WithOrderIDFunc(fn func() string) Option {
	return func(co *Checkout) { co.newOrderID = fn }
}

func New(cart CartService, rates port.RateSource, opts ...Option) *Checkout {
	co := &Checkout{
		cart:         cart,
		rates:        rates,
		clock:        clock.Real{},
		logger:       slog.Default(),
		metrics:      metrics.Nop{},
		stepInterval: DefaultStepInterval,
		finalDelay:   DefaultFinalDelay,
		wallets:      maps.Clone(DefaultWallets),
		newOrderID:   randomOrderID,
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Subscribe registers fn to receive a snapshot after every session change.
// fn runs without the checkout lock held and must not block.
func (co *Checkout) Subscribe(fn func(Snapshot)) {
	co.mu.Lock()
	defer co.mu.Unlock()

	co.observers = append(co.observers, fn)
}

// Open starts a fresh session at shipping, discarding any previous one.
func (co *Checkout) Open(ctx context.Context) Snapshot {
	co.mu.Lock()
	if co.session != nil {
		co.session.stopTimer()
	}
	co.gen++
	co.session = newSession(co.gen)
	snap := co.enterLocked(StepShipping)
	co.mu.Unlock()

	co.logger.InfoContext(ctx, "checkout opened", slog.String("session_id", snap.ID.String()))
	co.notify(snap)
	return snap
}

// Close discards the session at any step and stops pending log advancement.
func (co *Checkout) Close() {
	co.mu.Lock()
	s := co.session
	if s == nil {
		co.mu.Unlock()
		return
	}
	s.stopTimer()
	co.session = nil
	co.mu.Unlock()

	co.logger.Info("checkout closed",
		slog.String("session_id", s.id.String()),
		slog.String("step", s.step.String()),
	)
}

func (co *Checkout) Snapshot() (Snapshot, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.session == nil {
		return Snapshot{}, false
	}
	return co.session.snapshot(), true
}

func (co *Checkout) UpdateShipping(info ShippingInfo) error {
	co.mu.Lock()
	s, err := co.requireStepLocked(StepShipping)
	if err != nil {
		co.mu.Unlock()
		return err
	}
	s.shipping = info
	snap := s.snapshot()
	co.mu.Unlock()

	co.notify(snap)
	return nil
}

// Continue moves shipping -> payment.
func (co *Checkout) Continue() error {
	co.mu.Lock()
	if _, err := co.requireStepLocked(StepShipping); err != nil {
		co.mu.Unlock()
		return err
	}
	snap := co.enterLocked(StepPayment)
	co.mu.Unlock()

	co.notify(snap)
	return nil
}

// SelectCrypto switches the payment currency; the step does not change.
func (co *Checkout) SelectCrypto(c domain.Crypto) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCrypto, c)
	}

	co.mu.Lock()
	s, err := co.requireStepLocked(StepPayment)
	if err != nil {
		co.mu.Unlock()
		return err
	}
	s.crypto = c
	snap := s.snapshot()
	co.mu.Unlock()

	co.notify(snap)
	return nil
}

// Quote computes the amount for the selected crypto from the current cart
// total and the latest rates. Rates are read on every call.
func (co *Checkout) Quote() (Quote, error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.session == nil {
		return Quote{}, ErrNoSession
	}
	if co.session.step == StepShipping {
		return Quote{}, fmt.Errorf("%w: no quote in %s", ErrInvalidTransition, StepShipping)
	}
	return co.quoteLocked(co.session.crypto), nil
}

// Quotes returns a quote for every supported crypto.
func (co *Checkout) Quotes() (map[domain.Crypto]Quote, error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.session == nil {
		return nil, ErrNoSession
	}

	quotes := make(map[domain.Crypto]Quote, len(domain.Cryptos))
	for _, c := range domain.Cryptos {
		quotes[c] = co.quoteLocked(c)
	}
	return quotes, nil
}

// ConfirmSent moves payment -> processing and starts the verification log.
// Success follows automatically once the log is complete.
func (co *Checkout) ConfirmSent(ctx context.Context) error {
	co.mu.Lock()
	s, err := co.requireStepLocked(StepPayment)
	if err != nil {
		co.mu.Unlock()
		return err
	}

	quote := co.quoteLocked(s.crypto)
	seq := NewSequence(quote.Formatted(), quote.Crypto)
	snap := co.enterLocked(StepProcessing)
	co.scheduleLocked(s, seq, 0)
	co.mu.Unlock()

	co.logger.InfoContext(ctx, "payment confirmation started",
		slog.String("session_id", s.id.String()),
		slog.String("crypto", string(quote.Crypto)),
		slog.String("amount", quote.Formatted()),
		slog.String("total", quote.Total.String()),
	)
	co.notify(snap)
	return nil
}

// Acknowledge finishes a successful session: the cart is cleared and the session discarded.
func (co *Checkout) Acknowledge(ctx context.Context) error {
	co.mu.Lock()
	s, err := co.requireStepLocked(StepSuccess)
	if err != nil {
		co.mu.Unlock()
		return err
	}
	co.session = nil
	co.mu.Unlock()

	co.cart.Clear(ctx)

	co.logger.InfoContext(ctx, "order acknowledged",
		slog.String("session_id", s.id.String()),
		slog.String("order_id", s.orderID),
	)
	return nil
}

func (co *Checkout) scheduleLocked(s *session, seq Sequence, i int) {
	gen := s.gen
	s.timer = co.clock.AfterFunc(co.stepInterval, func() {
		co.advance(gen, seq, i)
	})
}

// advance appends message i, or schedules completion once the sequence is exhausted.
func (co *Checkout) advance(gen uint64, seq Sequence, i int) {
	co.mu.Lock()
	s := co.session
	if s == nil || s.gen != gen || s.step != StepProcessing {
		co.mu.Unlock()
		return
	}

	msg, ok := seq.Message(i)
	if !ok {
		s.timer = co.clock.AfterFunc(co.finalDelay, func() {
			co.complete(gen)
		})
		co.mu.Unlock()
		return
	}

	s.log = append(s.log, msg)
	co.scheduleLocked(s, seq, i+1)
	snap := s.snapshot()
	co.mu.Unlock()

	co.notify(snap)
}

func (co *Checkout) complete(gen uint64) {
	co.mu.Lock()
	s := co.session
	if s == nil || s.gen != gen || s.step != StepProcessing {
		co.mu.Unlock()
		return
	}
	s.timer = nil
	s.orderID = co.newOrderID()
	snap := co.enterLocked(StepSuccess)
	co.mu.Unlock()

	co.logger.Info("payment verified",
		slog.String("session_id", snap.ID.String()),
		slog.String("order_id", snap.OrderID),
	)
	co.notify(snap)
}

func (co *Checkout) requireStepLocked(step Step) (*session, error) {
	if co.session == nil {
		return nil, ErrNoSession
	}
	if co.session.step != step {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidTransition, step, co.session.step)
	}
	return co.session, nil
}

func (co *Checkout) enterLocked(step Step) Snapshot {
	co.session.step = step
	co.metrics.RecordCheckoutStep(step.String())
	return co.session.snapshot()
}

func (co *Checkout) quoteLocked(c domain.Crypto) Quote {
	return NewQuote(co.cart.Total(), co.rates.Rates(), c, co.wallets[c])
}

func (co *Checkout) notify(snap Snapshot) {
	co.mu.Lock()
	observers := co.observers
	co.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// randomOrderID is cosmetic: 9 upper-case characters, no uniqueness guarantee.
func randomOrderID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
