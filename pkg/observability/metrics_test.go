package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry and visible once observed.
func TestMetricsRegistered(t *testing.T) {
	// Vector metrics only appear after first observation.
	RequestsTotal.WithLabelValues("GET", "2xx").Inc()
	RequestDuration.WithLabelValues("GET").Observe(0.1)
	ExchangesTotal.WithLabelValues("success").Inc()
	ProviderRequestsTotal.WithLabelValues("gemini", "test", "success").Inc()
	ProviderLatency.WithLabelValues("gemini", "test").Observe(0.1)
	ProviderTokensTotal.WithLabelValues("gemini", "test", "input").Add(10)
	SessionsEvictedTotal.WithLabelValues("idle").Inc()
	MCPToolCallsTotal.WithLabelValues("ask_health_assistant", "ok").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{}
	for _, name := range []string{
		"healthchat_requests_total",
		"healthchat_request_duration_seconds",
		"healthchat_exchanges_total",
		"healthchat_provider_requests_total",
		"healthchat_provider_latency_seconds",
		"healthchat_provider_tokens_total",
		"healthchat_history_evictions_total",
		"healthchat_sessions_active",
		"healthchat_sessions_evicted_total",
		"healthchat_ratelimit_rejected_total",
		"healthchat_mcp_tool_calls_total",
	} {
		expected[name] = false
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// --- Middleware ---

func TestMiddlewareRecordsRequestCount(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "2xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if delta := counterValue(t, RequestsTotal, "GET", "2xx") - before; delta != 1 {
		t.Errorf("expected request count to increase by 1, got delta=%f", delta)
	}
}

func TestMiddlewareCapturesStatusCode(t *testing.T) {
	before := counterValue(t, RequestsTotal, "POST", "4xx")
	beforeHist := histogramCount(t, RequestDuration, "POST")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.WriteHeader(http.StatusInternalServerError) // ignored: first status wins
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/session/messages", nil))

	if delta := counterValue(t, RequestsTotal, "POST", "4xx") - before; delta != 1 {
		t.Errorf("expected 4xx count to increase by 1, got delta=%f", delta)
	}
	if delta := histogramCount(t, RequestDuration, "POST") - beforeHist; delta != 1 {
		t.Errorf("expected one duration sample, got delta=%d", delta)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	ExchangesTotal.WithLabelValues("success").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthchat_exchanges_total") {
		t.Error("scrape output missing healthchat_exchanges_total")
	}
}

func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram metric: %v", err)
	}
	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
