// Package metrics owns the Prometheus registry of the storefront service.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Outcomes recorded for outbound calls and cart operations.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeReceived = "received"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	externalRequests *prometheus.CounterVec
	externalDuration *prometheus.HistogramVec
	cartEvents       *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		externalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "external_requests_total",
			Help: "Calls to the catalog and order services.",
		}, []string{"peer", "endpoint", "outcome"}),
		externalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "external_request_duration_seconds",
			Help:    "Latency of calls to the catalog and order services.",
			Buckets: prometheus.DefBuckets,
		}, []string{"peer", "endpoint"}),
		cartEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cart_events_total",
			Help: "Cart events handed to the event bus.",
		}, []string{"type", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.externalRequests,
		m.externalDuration,
		m.cartEvents,
	)

	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveExternal records an outbound call.
func (m *Metrics) ObserveExternal(peer, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.externalRequests.WithLabelValues(peer, endpoint, outcome).Inc()
	m.externalDuration.WithLabelValues(peer, endpoint).Observe(elapsed.Seconds())
}

// CountCartEvent records a publish attempt.
func (m *Metrics) CountCartEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.cartEvents.WithLabelValues(eventType, outcome).Inc()
}

// RegisterSessionGauge exposes the number of live cart sessions.
func (m *Metrics) RegisterSessionGauge(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace, Name: "cart_sessions",
		Help: "Cart sessions held in memory.",
	}, func() float64 { return float64(count()) }))
}

// RegisterDBStats exposes connection pool stats of db under go_sql_*{db_name}.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) {
	if m == nil {
		return
	}
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}
