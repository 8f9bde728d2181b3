package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCartMutation("add")
	c.RecordCartMutation("add")
	c.RecordCartMutation("remove")
	c.RecordPersistFailure("save")
	c.RecordCheckoutStep("payment")
	c.RecordRateFetchSuccess()
	c.RecordRateFetchFailure("http")
	c.RecordRate("BTC", 51234.5)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.cartMutations.WithLabelValues("add")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.cartMutations.WithLabelValues("remove")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.persistFailures.WithLabelValues("save")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.checkoutSteps.WithLabelValues("payment")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.rateFetchOK))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.rateFetchFail.WithLabelValues("http")))
	assert.Equal(t, 51234.5, testutil.ToFloat64(c.rates.WithLabelValues("BTC")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordCartMutation("clear")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `ghostshop_cart_mutations_total{op="clear"} 1`))
}
