package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "league_builds"

// HTTPBuckets covers request latency up to the Data Dragon fetch timeout.
var HTTPBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics holds every collector the server exports. A nil *Metrics is
// valid and records nothing, so tests can leave it unset.
type Metrics struct {
	gatherer prometheus.Gatherer

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	CatalogLoads    *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	BuildSaves      *prometheus.CounterVec
	BuildRejections *prometheus.CounterVec
	FavoriteChanges *prometheus.CounterVec
	LiveSessions    prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to keep registrations isolated.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route template, method and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route template",
				Buckets:   HTTPBuckets,
			},
			[]string{"route"},
		),
		CatalogLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "loads_total",
				Help:      "Data Dragon document loads by kind and result",
			},
			[]string{"kind", "result"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "cache_lookups_total",
				Help:      "Catalog cache lookups by backend and outcome (hit/miss/error)",
			},
			[]string{"backend", "outcome"},
		),
		BuildSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "builds",
				Name:      "saves_total",
				Help:      "Build persistence calls by operation and result",
			},
			[]string{"op", "result"},
		),
		BuildRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "builds",
				Name:      "rejections_total",
				Help:      "Items refused by the compatibility validator by reason",
			},
			[]string{"reason"},
		),
		FavoriteChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "favorites",
				Name:      "changes_total",
				Help:      "Favorite additions and removals",
			},
			[]string{"op"},
		),
		LiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "ws",
				Name:      "live_sessions",
				Help:      "Open build session sockets",
			},
		),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) CatalogLoad(kind string, err error) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(kind, result(err)).Inc()
}

func (m *Metrics) CacheLookup(backend, outcome string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(backend, outcome).Inc()
}

func (m *Metrics) BuildSave(op string, err error) {
	if m == nil {
		return
	}
	m.BuildSaves.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) BuildRejected(reason string) {
	if m == nil {
		return
	}
	m.BuildRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) FavoriteChanged(op string) {
	if m == nil {
		return
	}
	m.FavoriteChanges.WithLabelValues(op).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.LiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.LiveSessions.Dec()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
