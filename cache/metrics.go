package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsCache holds Prometheus metrics for the cache subsystem.
type metricsCache struct {
	once sync.Once

	fetchesTotal        prometheus.Counter
	fetchErrorsTotal    prometheus.Counter
	elementsFetched     prometheus.Counter
	backgroundRefreshes prometheus.Counter
	sweepSkipsInFlight  prometheus.Counter
	sweepSkipsRateLimit prometheus.Counter
	searchesTotal       prometheus.Counter
	fetchDuration       prometheus.Histogram
}

var serviceMetrics metricsCache

func (m *metricsCache) init() {
	m.once.Do(func() {
		m.fetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_fetches_total", Help: "Successful ontology cache fetches"})
		m.fetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_fetch_errors_total", Help: "Failed ontology cache fetches"})
		m.elementsFetched = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_elements_fetched_total", Help: "Ontology elements fetched across all backends"})
		m.backgroundRefreshes = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_background_refreshes_total", Help: "Background refreshes spawned by stale-while-revalidate"})
		m.sweepSkipsInFlight = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_sweep_skips_inflight_total", Help: "Sweep passes skipping a backend with a refresh in flight"})
		m.sweepSkipsRateLimit = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_sweep_skips_ratelimited_total", Help: "Sweep passes skipping a backend inside the rate-limit window"})
		m.searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "sparqldesk_cache_searches_total", Help: "Search queries served from the cache"})
		m.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "sparqldesk_cache_fetch_duration_seconds", Help: "End-to-end fetch duration", Buckets: prometheus.DefBuckets})
	})
}

func (m *metricsCache) fetchOK(elements int, d time.Duration) {
	m.init()
	m.fetchesTotal.Inc()
	m.elementsFetched.Add(float64(elements))
	m.fetchDuration.Observe(d.Seconds())
}

func (m *metricsCache) fetchError() {
	m.init()
	m.fetchErrorsTotal.Inc()
}

func (m *metricsCache) backgroundRefresh() {
	m.init()
	m.backgroundRefreshes.Inc()
}

func (m *metricsCache) sweepSkipInFlight() {
	m.init()
	m.sweepSkipsInFlight.Inc()
}

func (m *metricsCache) sweepSkipRateLimited() {
	m.init()
	m.sweepSkipsRateLimit.Inc()
}

func (m *metricsCache) search() {
	m.init()
	m.searchesTotal.Inc()
}

// RegisterMetrics registers the cache metrics with a Prometheus registry.
// Metrics accumulate whether or not they are registered.
func RegisterMetrics(reg prometheus.Registerer) error {
	m := &serviceMetrics
	m.init()
	collectors := []prometheus.Collector{
		m.fetchesTotal,
		m.fetchErrorsTotal,
		m.elementsFetched,
		m.backgroundRefreshes,
		m.sweepSkipsInFlight,
		m.sweepSkipsRateLimit,
		m.searchesTotal,
		m.fetchDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
