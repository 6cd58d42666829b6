package common

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the collectors exported by the contacts service. A nil
// *Metrics is valid and records nothing, so tests and tools can skip it.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	CacheLoads       *prometheus.CounterVec
	CacheEntries     prometheus.Gauge
	FavoriteToggles  prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "upstream_requests_total",
			Help:      "Upstream batch fetches by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contacts",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream batch fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "cache_loads_total",
			Help:      "Directory cache population attempts by outcome.",
		}, []string{"outcome"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "contacts",
			Name:      "cache_entries",
			Help:      "Contacts held by the current snapshot.",
		}),
		FavoriteToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "favorite_toggles_total",
			Help:      "Favorite flag flips.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status code.",
		}, []string{"route", "code"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.UpstreamRequests,
			m.UpstreamDuration,
			m.CacheLoads,
			m.CacheEntries,
			m.FavoriteToggles,
			m.HTTPRequests,
		)
	}
	return m
}

// ObserveUpstream records a single upstream call.
func (m *Metrics) ObserveUpstream(seconds float64, err error) {
	if m == nil {
		return
	}
	m.UpstreamDuration.Observe(seconds)
	m.UpstreamRequests.WithLabelValues(outcome(err)).Inc()
}

// ObserveLoad records a cache population attempt and, on success, the new size.
func (m *Metrics) ObserveLoad(entries int, err error) {
	if m == nil {
		return
	}
	m.CacheLoads.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.CacheEntries.Set(float64(entries))
	}
}

// ObserveToggle counts one favorite flip.
func (m *Metrics) ObserveToggle() {
	if m == nil {
		return
	}
	m.FavoriteToggles.Inc()
}

// ObserveHTTP counts one served request.
func (m *Metrics) ObserveHTTP(route, code string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, code).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
