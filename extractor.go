package sentiscope

// ExtractResult holds what the crawler keeps from an HTML page.
type ExtractResult struct {
	// Title is the text of the page's <title> element.
	// An empty title means the page is not worth keeping.
	Title string

	// Text is the page's visible text, not yet normalized.
	Text string
}

// Extractor pulls the title and text out of an HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor returns the outbound links of an HTML page.
type LinkExtractor interface {
	// ExtractLinks returns every href in document order, resolved against
	// baseURL. Links are not filtered or deduplicated.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// Converter turns an HTML fragment into text that keeps its structure,
// such as Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
