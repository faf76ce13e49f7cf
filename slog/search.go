package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Ensure LoggingSearcher implements sentiscope.Searcher.
var _ sentiscope.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   sentiscope.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next sentiscope.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

func (s *LoggingSearcher) Search(ctx context.Context, query string) (results sentiscope.Results, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"hits", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}

// SemanticFallback logs the token the word was matched to, if any.
func (s *LoggingSearcher) SemanticFallback(ctx context.Context, word string) (token string, results sentiscope.Results, err error) {
	defer func(begin time.Time) {
		s.logger.Info("semantic fallback",
			"word", word,
			"token", token,
			"hits", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SemanticFallback(ctx, word)
}
