// Package readability extracts the article of a page with go-readability.
package readability

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sentiscope"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sentiscope.Extractor at compile time.
var _ sentiscope.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct {
	// Converter renders the article HTML as text. When nil, the article's
	// plain text content is used.
	Converter sentiscope.Converter
}

// NewExtractor creates a new Extractor that renders articles with conv.
// conv may be nil.
func NewExtractor(conv sentiscope.Converter) *Extractor {
	return &Extractor{Converter: conv}
}

// Extract processes raw HTML and returns the article title and text.
func (e *Extractor) Extract(rawHTML string) (*sentiscope.ExtractResult, error) {
	if rawHTML == "" {
		return nil, sentiscope.Errorf(sentiscope.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	result := &sentiscope.ExtractResult{
		Title: strings.TrimSpace(article.Title),
		Text:  article.TextContent,
	}
	if e.Converter != nil && strings.TrimSpace(article.Content) != "" {
		text, err := e.Converter.Convert(article.Content)
		if err != nil {
			return nil, fmt.Errorf("convert article: %w", err)
		}
		result.Text = text
	}
	return result, nil
}
