package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	return NewWithRegistry(registry, registry)
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := newTestMetrics()

	m.ObserveRequest("/by_station", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("/by_station", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/by_station", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("unmatched", "GET", "404")))
}

func TestMetrics_QueryOutcomeAndStore(t *testing.T) {
	m := newTestMetrics()

	m.QueryOutcome("by_date", "ok")
	m.QueryOutcome("by_date", "not_found")
	m.QueryOutcome("by_date", "not_found")
	m.SetStoreUp(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.queryOutcomes.WithLabelValues("by_date", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queryOutcomes.WithLabelValues("by_date", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeUp))

	m.SetStoreUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.storeUp))
}

func TestMetrics_Handler(t *testing.T) {
	m := newTestMetrics()
	m.RowsReturned("by_multiple_stations", 12)
	m.SetStoreUp(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "temperature_api_store_up 1"))
	assert.True(t, strings.Contains(string(body), `temperature_api_query_rows_returned_count{operation="by_multiple_stations"} 1`))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("/health", http.MethodGet, http.StatusOK, time.Millisecond)
		m.QueryOutcome("by_station", "ok")
		m.RowsReturned("by_station", 1)
		m.SetStoreUp(true)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
