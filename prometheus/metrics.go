// Package prometheus records crawl, indexing and search metrics with the
// Prometheus client library.
package prometheus

import (
	"github.com/fwojciec/sentiscope/crawl"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one process. Each Metrics owns its
// registry, so several can coexist in tests.
type Metrics struct {
	Registry *prometheus.Registry

	CrawlEventsTotal   *prometheus.CounterVec
	DocsIndexedTotal   prometheus.Counter
	SearchQueriesTotal *prometheus.CounterVec
	SearchLatency      *prometheus.HistogramVec
	SearchResultsCount prometheus.Histogram
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CrawlEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiscope_crawl_events_total",
				Help: "Crawl progress events by type.",
			},
			[]string{"type"},
		),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sentiscope_docs_indexed_total",
				Help: "Total documents added to the index.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiscope_search_queries_total",
				Help: "Search calls by operation and outcome (hit, zero_result, error).",
			},
			[]string{"op", "outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentiscope_search_latency_seconds",
				Help:    "Search latency in seconds by operation.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"op"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentiscope_search_results_count",
				Help:    "Number of documents returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
	}

	m.Registry.MustRegister(
		m.CrawlEventsTotal,
		m.DocsIndexedTotal,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
	)
	return m
}

// CrawlProgress returns a progress callback that counts every event and then
// calls next, if set.
func (m *Metrics) CrawlProgress(next crawl.ProgressFunc) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		m.CrawlEventsTotal.WithLabelValues(event.Type.String()).Inc()
		if next != nil {
			next(event)
		}
	}
}

// DocsIndexed adds n to the indexed documents counter.
func (m *Metrics) DocsIndexed(n int) {
	if n > 0 {
		m.DocsIndexedTotal.Add(float64(n))
	}
}

// WriteToTextfile writes every metric to path in the text exposition format,
// for collection by node_exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
