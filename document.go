package sentiscope

import (
	"context"
	"strings"
)

// Document represents a crawled page as stored in the corpus.
// ID is the document's append position and is never reused.
type Document struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID < 0 {
		return Errorf(EINVALID, "document ID must not be negative")
	}
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// NormalizeText lowercases text and drops blank lines.
func NormalizeText(text string) string {
	lines := strings.Split(strings.ToLower(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CorpusStorage loads and saves the corpus as a whole.
// Implementations must make SaveCorpus atomic.
type CorpusStorage interface {
	// LoadCorpus returns the persisted corpus, or an empty one if nothing
	// has been saved yet.
	LoadCorpus(ctx context.Context) (*Corpus, error)

	// SaveCorpus persists every document of the corpus.
	// Returns ECONFLICT if storage holds more documents than the corpus.
	SaveCorpus(ctx context.Context, c *Corpus) error
}

// DocumentWriter writes a committed document somewhere outside the corpus,
// such as a plain-text file per page.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}
