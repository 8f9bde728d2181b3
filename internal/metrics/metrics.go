// Package metrics collects and exposes Prometheus metrics for the cart, checkout and price feed.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CartRecorder is used by the cart store.
type CartRecorder interface {
	RecordCartMutation(op string)
	RecordPersistFailure(op string)
}

// CheckoutRecorder is used by the checkout state machine.
type CheckoutRecorder interface {
	RecordCheckoutStep(step string)
}

// PriceFeedRecorder is used by the price poller.
type PriceFeedRecorder interface {
	RecordRateFetchSuccess()
	RecordRateFetchFailure(reason string)
	RecordRate(crypto string, value float64)
}

// Nop discards everything. It is the default for components built without a collector.
type Nop struct{}

func (Nop) RecordCartMutation(string)     {}
func (Nop) RecordPersistFailure(string)   {}
func (Nop) RecordCheckoutStep(string)     {}
func (Nop) RecordRateFetchSuccess()       {}
func (Nop) RecordRateFetchFailure(string) {}
func (Nop) RecordRate(string, float64)    {}

// Collector implements every recorder on top of Prometheus.
type Collector struct {
	cartMutations   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	checkoutSteps   *prometheus.CounterVec
	rateFetchOK     prometheus.Counter
	rateFetchFail   *prometheus.CounterVec
	rates           *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ghostshop_cart_mutations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ghostshop_cart_persist_failures_total",
			Help: "Cart snapshot read or write failures by operation.",
		}, []string{"op"}),
		checkoutSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ghostshop_checkout_steps_total",
			Help: "Checkout sessions entering each step.",
		}, []string{"step"}),
		rateFetchOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ghostshop_rate_fetch_success_total",
			Help: "Successful price feed fetches.",
		}),
		rateFetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ghostshop_rate_fetch_fail_total",
			Help: "Failed price feed fetches by reason.",
		}, []string{"reason"}),
		rates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ghostshop_rate",
			Help: "Last known fiat quote per coin.",
		}, []string{"crypto"}),
	}

	reg.MustRegister(
		c.cartMutations,
		c.persistFailures,
		c.checkoutSteps,
		c.rateFetchOK,
		c.rateFetchFail,
		c.rates,
	)

	return c
}

func (c *Collector) RecordCartMutation(op string) {
	c.cartMutations.WithLabelValues(op).Inc()
}

func (c *Collector) RecordPersistFailure(op string) {
	c.persistFailures.WithLabelValues(op).Inc()
}

func (c *Collector) RecordCheckoutStep(step string) {
	c.checkoutSteps.WithLabelValues(step).Inc()
}

func (c *Collector) RecordRateFetchSuccess() {
	c.rateFetchOK.Inc()
}

func (c *Collector) RecordRateFetchFailure(reason string) {
	c.rateFetchFail.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordRate(crypto string, value float64) {
	c.rates.WithLabelValues(crypto).Set(value)
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
