// Package prom exports tool and API metrics through the Prometheus client.
package prom

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KamdynS/go-miro-mcp/observability"
)

// Exporter implements observability.Metrics on Prometheus collectors.
type Exporter struct {
	toolCalls   *prometheus.CounterVec
	toolLatency *prometheus.HistogramVec
	toolErrors  *prometheus.CounterVec
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
}

// New creates an exporter and registers its collectors with reg.
func New(reg prometheus.Registerer) *Exporter {
	e := &Exporter{
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "miro_mcp_tool_calls_total",
			Help: "Tool invocations by tool and outcome.",
		}, []string{observability.LabelTool, observability.LabelOutcome}),
		toolLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "miro_mcp_tool_latency_seconds",
			Help:    "Tool execution latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{observability.LabelTool}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "miro_mcp_tool_errors_total",
			Help: "Tool failures by error kind.",
		}, []string{"kind"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "miro_mcp_api_requests_total",
			Help: "Requests to the whiteboard API by method and HTTP status (0 when no response).",
		}, []string{"method", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "miro_mcp_api_latency_seconds",
			Help:    "Whiteboard API round-trip latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(e.toolCalls, e.toolLatency, e.toolErrors, e.apiRequests, e.apiLatency)
	return e
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (e *Exporter) IncrementRequests(labels map[string]string) {
	e.toolCalls.WithLabelValues(labels[observability.LabelTool], outcome(labels)).Inc()
}

func (e *Exporter) RecordLatency(d time.Duration, labels map[string]string) {
	e.toolLatency.WithLabelValues(labels[observability.LabelTool]).Observe(d.Seconds())
}

func (e *Exporter) RecordError(errorType string, labels map[string]string) {
	e.toolErrors.WithLabelValues(errorType).Inc()
}

func (e *Exporter) RecordAPIRequest(method string, status int, d time.Duration) {
	e.apiRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	e.apiLatency.WithLabelValues(method).Observe(d.Seconds())
}

func outcome(labels map[string]string) string {
	if v := labels[observability.LabelOutcome]; v != "" {
		return v
	}
	return "ok"
}

// Ensure interface compliance
var _ observability.Metrics = (*Exporter)(nil)
