// Package monitoring - metrics.go exposes relay operational metrics.
//
// DESIGN: Prometheus counters for the events an operator needs to see:
//   - requests by terminal status (ok, rate_limited, invalid, upstream_error...)
//   - skipped upstream frames (malformed JSON is swallowed on the hot path,
//     so persistent upstream format drift is only visible here)
//   - tool calls and tool failures
//
// Counters are registered on an injected registry so tests can construct
// isolated instances.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	Requests      *prometheus.CounterVec
	FramesSkipped prometheus.Counter
	ToolCalls     prometheus.Counter
	ToolErrors    prometheus.Counter
	RateLimited   prometheus.Counter
}

// NewMetrics creates and registers the relay collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Chat relay requests by terminal status.",
		}, []string{"status"}),
		FramesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_frames_skipped_total",
			Help: "Upstream SSE frames dropped as unparsable.",
		}),
		ToolCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_tool_calls_total",
			Help: "Tool calls dispatched to the executor.",
		}),
		ToolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_tool_errors_total",
			Help: "Tool executions that failed and were skipped.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_rate_limited_total",
			Help: "Requests rejected by the local rate limiter.",
		}),
	}
	reg.MustRegister(m.Requests, m.FramesSkipped, m.ToolCalls, m.ToolErrors, m.RateLimited)
	return m
}
