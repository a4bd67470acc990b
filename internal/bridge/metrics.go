package bridge

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "ucisession"
	metricsSubsystem = "bridge"
)

// metrics holds the bridge collectors. Each Server owns its registry, so
// several servers can run in one process.
type metrics struct {
	registry *prometheus.Registry

	connections prometheus.Gauge
	requests    *prometheus.CounterVec
	results     prometheus.Counter
	transitions *prometheus.CounterVec
	failures    prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "connections",
			Help:      "Open WebSocket connections, one engine session each.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_total",
			Help:      "Client intents accepted by a session, by type.",
		}, []string{"type"}),
		results: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "results_total",
			Help:      "Search results delivered to clients.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "state_transitions_total",
			Help:      "Session state transitions, by target state.",
		}, []string{"to"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "session_failures_total",
			Help:      "Sessions that ended with a fatal error.",
		}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.connections,
		m.requests,
		m.results,
		m.transitions,
		m.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest counts an accepted search or stop.
func (m *metrics) RecordRequest(typ string) {
	m.requests.WithLabelValues(typ).Inc()
}

// RecordTransition counts a state change into to.
func (m *metrics) RecordTransition(to string) {
	m.transitions.WithLabelValues(to).Inc()
}
