package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Ensure Searcher implements sentiscope.Searcher at compile time.
var _ sentiscope.Searcher = (*Searcher)(nil)

// Searcher records outcome and latency of every call to the wrapped searcher.
type Searcher struct {
	next    sentiscope.Searcher
	metrics *Metrics
}

// NewSearcher wraps next.
func NewSearcher(next sentiscope.Searcher, m *Metrics) *Searcher {
	return &Searcher{next: next, metrics: m}
}

func (s *Searcher) Search(ctx context.Context, query string) (results sentiscope.Results, err error) {
	defer s.observe("search", time.Now(), &results, &err)
	return s.next.Search(ctx, query)
}

func (s *Searcher) SemanticFallback(ctx context.Context, word string) (token string, results sentiscope.Results, err error) {
	defer s.observe("fallback", time.Now(), &results, &err)
	return s.next.SemanticFallback(ctx, word)
}

func (s *Searcher) observe(op string, begin time.Time, results *sentiscope.Results, err *error) {
	s.metrics.SearchLatency.WithLabelValues(op).Observe(time.Since(begin).Seconds())

	outcome := "hit"
	switch {
	case *err != nil:
		outcome = "error"
	case len(*results) == 0:
		outcome = "zero_result"
	}
	s.metrics.SearchQueriesTotal.WithLabelValues(op, outcome).Inc()

	if *err == nil {
		s.metrics.SearchResultsCount.Observe(float64(len(*results)))
	}
}
