// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the LightFlow relay.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts inbound requests by mode and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightflow_requests_total",
			Help: "Total inbound requests",
		},
		[]string{"mode", "status"},
	)

	// RequestDuration records inbound request duration in seconds by mode.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lightflow_request_duration_seconds",
			Help:    "Inbound request duration",
			Buckets: LLMBuckets,
		},
		[]string{"mode"},
	)

	// StreamsActive tracks the number of active SSE relay streams.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lightflow_streams_active",
			Help: "Active relay streams",
		},
	)

	// StreamUpdatesTotal counts normalized updates delivered to hosting
	// applications, by kind (content, reasoning, done, empty).
	StreamUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightflow_stream_updates_total",
			Help: "Normalized updates delivered",
		},
		[]string{"kind"},
	)

	// MalformedChunksTotal counts SSE data lines whose payload failed to
	// parse and was skipped.
	MalformedChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lightflow_stream_malformed_chunks_total",
			Help: "Skipped unparseable stream chunks",
		},
	)

	// UpstreamRequestsTotal counts requests relayed to the backend.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightflow_upstream_requests_total",
			Help: "Upstream backend requests",
		},
		[]string{"mode", "status"},
	)

	// UpstreamLatency records backend call latency in seconds. For
	// streaming calls this spans the whole stream lifetime.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lightflow_upstream_latency_seconds",
			Help:    "Upstream backend latency",
			Buckets: LLMBuckets,
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamsActive,
		StreamUpdatesTotal,
		MalformedChunksTotal,
		UpstreamRequestsTotal,
		UpstreamLatency,
	)
}

// UpdateKind classifies a normalized update for the StreamUpdatesTotal
// counter.
func UpdateKind(content, reasoning *string, done bool) string {
	switch {
	case done:
		return "done"
	case content != nil && *content != "":
		return "content"
	case reasoning != nil && *reasoning != "":
		return "reasoning"
	default:
		return "empty"
	}
}
