package mock

import (
	"context"

	"github.com/fwojciec/sentiscope"
)

var (
	_ sentiscope.Searcher            = (*Searcher)(nil)
	_ sentiscope.Taxonomy            = (*Taxonomy)(nil)
	_ sentiscope.SentimentClassifier = (*SentimentClassifier)(nil)
	_ sentiscope.Generator           = (*Generator)(nil)
	_ sentiscope.DomainLimiter       = (*DomainLimiter)(nil)
)

// Searcher is a mock implementation of sentiscope.Searcher.
type Searcher struct {
	SearchFn           func(ctx context.Context, query string) (sentiscope.Results, error)
	SemanticFallbackFn func(ctx context.Context, word string) (string, sentiscope.Results, error)
}

func (s *Searcher) Search(ctx context.Context, query string) (sentiscope.Results, error) {
	return s.SearchFn(ctx, query)
}

func (s *Searcher) SemanticFallback(ctx context.Context, word string) (string, sentiscope.Results, error) {
	return s.SemanticFallbackFn(ctx, word)
}

// Taxonomy is a mock implementation of sentiscope.Taxonomy.
type Taxonomy struct {
	SenseFn      func(word string) (sentiscope.Sense, bool)
	SimilarityFn func(a, b sentiscope.Sense) (float64, bool)
}

func (t *Taxonomy) Sense(word string) (sentiscope.Sense, bool) {
	return t.SenseFn(word)
}

func (t *Taxonomy) Similarity(a, b sentiscope.Sense) (float64, bool) {
	return t.SimilarityFn(a, b)
}

// SentimentClassifier is a mock implementation of sentiscope.SentimentClassifier.
type SentimentClassifier struct {
	ClassifyFn func(ctx context.Context, texts []string) ([]float64, error)
}

func (c *SentimentClassifier) Classify(ctx context.Context, texts []string) ([]float64, error) {
	return c.ClassifyFn(ctx, texts)
}

// Generator is a mock implementation of sentiscope.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, text string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, text string) (string, error) {
	return g.GenerateFn(ctx, text)
}

// DomainLimiter is a mock implementation of sentiscope.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, url string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, url string) error {
	return l.WaitFn(ctx, url)
}
