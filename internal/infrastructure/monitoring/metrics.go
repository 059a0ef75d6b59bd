package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the host.
type Metrics struct {
	// Bridge HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Provider metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Terminal metrics
	TerminalSessionsActive prometheus.Gauge
	TerminalSessionsTotal  prometheus.Counter
	TerminalOutputBytes    prometheus.Counter

	// Stream metrics
	StreamConnections prometheus.Gauge
	StreamEvents      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "host_http_requests_total",
			Help: "Total bridge HTTP requests",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "host_http_request_duration_seconds",
			Help:    "Bridge HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ServiceCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "host_service_calls_total",
			Help: "Total provider tool invocations",
		}, []string{"service", "tool", "status"}),

		ServiceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "host_service_duration_seconds",
			Help:    "Provider tool invocation duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "tool"}),

		ServiceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "host_service_errors_total",
			Help: "Total provider tool errors",
		}, []string{"service", "tool"}),

		TerminalSessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "host_terminal_sessions_active",
			Help: "Currently registered terminal sessions",
		}),

		TerminalSessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "host_terminal_sessions_total",
			Help: "Total terminal sessions created",
		}),

		TerminalOutputBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "host_terminal_output_bytes_total",
			Help: "Total bytes read from terminal sessions",
		}),

		StreamConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "host_stream_connections",
			Help: "Active UI stream connections",
		}),

		StreamEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "host_stream_events_total",
			Help: "Events pushed to the UI stream",
		}, []string{"type"}),

		Uptime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "host_uptime_seconds",
			Help: "Host process uptime",
		}),
	}

	return m
}

// RecordHTTPRequest records a completed bridge request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordServiceCall records a provider tool invocation.
func (m *Metrics) RecordServiceCall(service, tool, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, tool, status).Inc()
	m.ServiceDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
	if status == "error" {
		m.ServiceErrors.WithLabelValues(service, tool).Inc()
	}
}

// TerminalSessionStarted records a new terminal session.
func (m *Metrics) TerminalSessionStarted() {
	m.TerminalSessionsTotal.Inc()
	m.TerminalSessionsActive.Inc()
}

// TerminalSessionRemoved records a terminal session leaving the registry.
func (m *Metrics) TerminalSessionRemoved() {
	m.TerminalSessionsActive.Dec()
}

// TerminalOutput records bytes read from a session PTY.
func (m *Metrics) TerminalOutput(n int) {
	m.TerminalOutputBytes.Add(float64(n))
}

// StreamConnected records a new UI stream connection.
func (m *Metrics) StreamConnected() {
	m.StreamConnections.Inc()
}

// StreamDisconnected records a closed UI stream connection.
func (m *Metrics) StreamDisconnected() {
	m.StreamConnections.Dec()
}

// StreamEvent records an event pushed to the UI stream.
func (m *Metrics) StreamEvent(eventType string) {
	m.StreamEvents.WithLabelValues(eventType).Inc()
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
