// Package metrics holds the prometheus collectors for spreadsheet reads,
// remote commands and the HTTP surface. A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cattlehealth"

// Metrics holds all application metrics.
type Metrics struct {
	SheetFetches   *prometheus.CounterVec
	SheetLatency   *prometheus.HistogramVec
	GatewayCalls   *prometheus.CounterVec
	GatewayLatency *prometheus.HistogramVec
	FetchFallbacks *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPLatency    *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SheetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sheets",
			Name:      "fetch_total",
			Help:      "Total number of sheet tab reads",
		}, []string{"tab", "status"}),
		SheetLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sheets",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of sheet tab reads",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"tab"}),
		GatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of remote command calls",
		}, []string{"action", "status"}),
		GatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Duration of remote command calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"action"}),
		FetchFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "fallback_total",
			Help:      "Reads answered from mock data or an empty collection",
		}, []string{"entity", "kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
		}, []string{"method", "path"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.SheetFetches, m.SheetLatency,
			m.GatewayCalls, m.GatewayLatency,
			m.FetchFallbacks,
			m.HTTPRequests, m.HTTPLatency,
		)
	}

	return m
}

// ObserveSheetFetch records one tab read.
func (m *Metrics) ObserveSheetFetch(tab string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SheetFetches.WithLabelValues(tab, outcome(err)).Inc()
	m.SheetLatency.WithLabelValues(tab).Observe(elapsed.Seconds())
}

// ObserveGatewayCall records one remote command round-trip.
func (m *Metrics) ObserveGatewayCall(action string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GatewayCalls.WithLabelValues(action, outcome(err)).Inc()
	m.GatewayLatency.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveFallback records a read answered without live data. kind is "mock" or "empty".
func (m *Metrics) ObserveFallback(entity, kind string) {
	if m == nil {
		return
	}
	m.FetchFallbacks.WithLabelValues(entity, kind).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
