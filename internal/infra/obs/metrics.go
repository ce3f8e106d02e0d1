package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "villafinder"

// Metrics holds the process collectors. The zero value is not usable; build
// it with NewMetrics and register it once.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	messages       *prometheus.CounterVec
	messageLatency *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	candidatePool  prometheus.Histogram
	viewsApplied   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_messages_total",
			Help:      "Queries and commands handled, by outcome.",
		}, []string{"kind", "key", "outcome"}),
		messageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_message_duration_seconds",
			Help:      "Handler latency per query or command.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind", "key"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_lookups_total",
			Help:      "Page cache lookups by query and result.",
		}, []string{"query", "result"}),
		candidatePool: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "related_candidate_pool_size",
			Help:      "Candidates fetched per related-villa ranking.",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20, 50},
		}),
		viewsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_applied_total",
			Help:      "View counter increments by content kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequests, m.httpDuration,
		m.messages, m.messageLatency,
		m.cacheLookups, m.candidatePool, m.viewsApplied,
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveMessage(kind, key string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.messages.WithLabelValues(kind, key, outcome).Inc()
	m.messageLatency.WithLabelValues(kind, key).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit(query string)  { m.cacheLookups.WithLabelValues(query, "hit").Inc() }
func (m *Metrics) CacheMiss(query string) { m.cacheLookups.WithLabelValues(query, "miss").Inc() }

func (m *Metrics) ObserveCandidates(pool int) { m.candidatePool.Observe(float64(pool)) }

func (m *Metrics) ViewApplied(kind string) { m.viewsApplied.WithLabelValues(kind).Inc() }

// HTTP records request counts and latency per matched route. Unmatched
// routes share a single label so scanners cannot inflate cardinality.
func (m *Metrics) HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
