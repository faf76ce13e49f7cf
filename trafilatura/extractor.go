// Package trafilatura extracts the main content of a page with
// go-trafilatura, dropping navigation, sidebars and footers.
package trafilatura

import (
	"errors"
	"strings"

	"github.com/fwojciec/sentiscope"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements sentiscope.Extractor at compile time.
var _ sentiscope.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and the plain text
// of its main content.
func (e *Extractor) Extract(rawHTML string) (*sentiscope.ExtractResult, error) {
	if rawHTML == "" {
		return nil, errors.New("empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &sentiscope.ExtractResult{
		Title: strings.TrimSpace(result.Metadata.Title),
		Text:  result.ContentText,
	}, nil
}
