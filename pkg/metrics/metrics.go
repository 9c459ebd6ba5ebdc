// Package metrics implements the observability hooks with Prometheus
// collectors.
//
//	m := metrics.New(prometheus.NewRegistry())
//	m.Install()
//	http.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/harvester/pkg/observability"
)

// Metrics holds the harvester collectors. It implements
// [observability.CrawlHooks], [observability.CacheHooks] and
// [observability.HTTPHooks].
type Metrics struct {
	gatherer prometheus.Gatherer

	rounds         *prometheus.CounterVec
	roundDuration  *prometheus.HistogramVec
	batchSize      *prometheus.GaugeVec
	searches       *prometheus.CounterVec
	searchHits     *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	checkpoints    *prometheus.CounterVec
	authors        *prometheus.CounterVec
	keywords       *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpErrors     *prometheus.CounterVec
}

// New registers the collectors, plus the Go and process collectors, in reg.
func New(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		rounds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_rounds_total",
			Help: "Completed crawl rounds, labeled by source.",
		}, []string{"source"}),
		roundDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harvester_round_duration_seconds",
			Help:    "Duration of crawl rounds, labeled by source.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"source"}),
		batchSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "harvester_round_batch_size",
			Help: "Keywords in the current round, labeled by source.",
		}, []string{"source"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_searches_total",
			Help: "Registry searches, labeled by source and status.",
		}, []string{"source", "status"}),
		searchHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_search_hits_total",
			Help: "Search results returned, labeled by source.",
		}, []string{"source"}),
		searchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harvester_search_duration_seconds",
			Help:    "Registry search latency, labeled by source.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),
		checkpoints: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_checkpoints_total",
			Help: "Stage checkpoint writes, labeled by source and status.",
		}, []string{"source", "status"}),
		authors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_authors_total",
			Help: "Author writes, labeled by source and kind (created, appended).",
		}, []string{"source", "kind"}),
		keywords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_keywords_total",
			Help: "Keywords added to the pool, labeled by discovering source.",
		}, []string{"source"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_cache_lookups_total",
			Help: "Response cache lookups, labeled by namespace and result.",
		}, []string{"namespace", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_cache_written_bytes_total",
			Help: "Bytes written to the response cache, labeled by namespace.",
		}, []string{"namespace"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_http_requests_total",
			Help: "Registry HTTP responses, labeled by host and status code.",
		}, []string{"host", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harvester_http_request_duration_seconds",
			Help:    "Registry HTTP latency, labeled by host.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"host"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "harvester_http_errors_total",
			Help: "Registry HTTP transport failures, labeled by host.",
		}, []string{"host"}),
	}
}

// Install makes m the process-wide hook implementation.
func (m *Metrics) Install() {
	observability.SetCrawlHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) OnRoundStart(_ context.Context, source string, batchSize int) {
	m.batchSize.WithLabelValues(source).Set(float64(batchSize))
}

func (m *Metrics) OnRoundComplete(_ context.Context, source string, d time.Duration) {
	m.rounds.WithLabelValues(source).Inc()
	m.roundDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) OnSearch(_ context.Context, source string, hits int, d time.Duration, err error) {
	m.searches.WithLabelValues(source, status(err)).Inc()
	m.searchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		m.searchHits.WithLabelValues(source).Add(float64(hits))
	}
}

func (m *Metrics) OnCheckpoint(_ context.Context, source string, err error) {
	m.checkpoints.WithLabelValues(source, status(err)).Inc()
}

func (m *Metrics) OnAuthor(_ context.Context, source string, created bool) {
	kind := "appended"
	if created {
		kind = "created"
	}
	m.authors.WithLabelValues(source, kind).Inc()
}

func (m *Metrics) OnKeyword(_ context.Context, source string) {
	m.keywords.WithLabelValues(source).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, namespace string) {
	m.cacheLookups.WithLabelValues(namespace, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, namespace string) {
	m.cacheLookups.WithLabelValues(namespace, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, namespace string, size int) {
	m.cacheBytes.WithLabelValues(namespace).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, statusCode int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(host).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
