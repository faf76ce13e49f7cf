// Package htmltomarkdown renders HTML fragments as Markdown text for the
// index. Link targets and images are dropped so URLs never become tokens.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sentiscope"
)

// Ensure Converter implements sentiscope.Converter at compile time.
var _ sentiscope.Converter = (*Converter)(nil)

var (
	imagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter

	// KeepLinks keeps link targets and images in the output.
	KeepLinks bool
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sentiscope.Errorf(sentiscope.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	if c.KeepLinks {
		return md, nil
	}

	md = imagePattern.ReplaceAllString(md, "")
	md = linkPattern.ReplaceAllString(md, "$1")
	return strings.TrimSpace(blankRuns.ReplaceAllString(md, "\n\n")), nil
}
