package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Ensure LoggingClassifier implements sentiscope.SentimentClassifier.
var _ sentiscope.SentimentClassifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a SentimentClassifier with logging.
type LoggingClassifier struct {
	next   sentiscope.SentimentClassifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next sentiscope.SentimentClassifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify logs the batch size and delegates to the wrapped classifier.
func (c *LoggingClassifier) Classify(ctx context.Context, texts []string) (scores []float64, err error) {
	defer func(begin time.Time) {
		c.logger.Info("classify",
			"texts", len(texts),
			"scores", len(scores),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Classify(ctx, texts)
}
