// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the healthchat service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthchat_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthchat_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// ExchangesTotal counts chat exchanges by outcome: success, unauthorized,
	// provider_error, empty_response, malformed_candidate.
	ExchangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthchat_exchanges_total",
			Help: "Chat exchanges by outcome",
		},
		[]string{"outcome"},
	)

	// ProviderRequestsTotal counts calls sent to the completion provider.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthchat_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records provider latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthchat_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens reported by the provider by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthchat_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// HistoryEvictionsTotal counts messages dropped from conversation windows.
	HistoryEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "healthchat_history_evictions_total",
			Help: "Messages evicted from history windows",
		},
	)

	// SessionsActive tracks the number of live chat sessions.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "healthchat_sessions_active",
			Help: "Active chat sessions",
		},
	)

	// SessionsEvictedTotal counts sessions removed by the store, by reason (lru, idle).
	SessionsEvictedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthchat_sessions_evicted_total",
			Help: "Evicted sessions",
		},
		[]string{"reason"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "healthchat_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)

	// MCPToolCallsTotal counts MCP tool invocations by name and outcome.
	MCPToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthchat_mcp_tool_calls_total",
			Help: "MCP tool calls",
		},
		[]string{"tool", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ExchangesTotal,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		HistoryEvictionsTotal,
		SessionsActive,
		SessionsEvictedTotal,
		RateLimitRejectedTotal,
		MCPToolCallsTotal,
	)
}
