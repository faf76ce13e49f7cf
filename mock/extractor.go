package mock

import "github.com/fwojciec/sentiscope"

var (
	_ sentiscope.Extractor     = (*Extractor)(nil)
	_ sentiscope.LinkExtractor = (*LinkExtractor)(nil)
	_ sentiscope.Converter     = (*Converter)(nil)
)

// Extractor is a mock implementation of sentiscope.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sentiscope.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sentiscope.ExtractResult, error) {
	return e.ExtractFn(html)
}

// LinkExtractor is a mock implementation of sentiscope.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

// Converter is a mock implementation of sentiscope.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
