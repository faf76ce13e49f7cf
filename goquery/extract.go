// Package goquery implements title, text and link extraction with CSS
// selectors over a parsed HTML document.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiscope"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var _ sentiscope.Extractor = (*Extractor)(nil)

// Extractor keeps the whole visible text of a page, one text node per line.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and its visible text. Scripts, styles and
// other non-rendered elements are dropped.
func (e *Extractor) Extract(rawHTML string) (*sentiscope.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, sentiscope.Errorf(sentiscope.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("head, script, style, noscript, template, svg").Remove()

	var lines []string
	for _, n := range doc.Nodes {
		collectText(n, &lines)
	}

	return &sentiscope.ExtractResult{
		Title: title,
		Text:  strings.Join(lines, "\n"),
	}, nil
}

// collectText appends the trimmed content of every non-empty text node
// under n, in document order.
func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
			*lines = append(*lines, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
