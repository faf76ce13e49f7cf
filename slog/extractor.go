package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Ensure LoggingExtractor implements sentiscope.Extractor.
var _ sentiscope.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   sentiscope.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sentiscope.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the size of the result.
func (e *LoggingExtractor) Extract(html string) (result *sentiscope.ExtractResult, err error) {
	defer func(begin time.Time) {
		var title string
		var textLen int
		if result != nil {
			title, textLen = result.Title, len(result.Text)
		}
		e.logger.Debug("extract",
			"title", title,
			"html_bytes", len(html),
			"text_bytes", textLen,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
