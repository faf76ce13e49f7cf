package sentiscope

import "sync"

// Corpus holds the crawled documents as three parallel, append-only
// sequences of URLs, titles and normalized contents. A document's ID is its
// position in these sequences.
//
// The sequences are equal length at rest. A crawl step appends the URL first
// and the title and content afterwards; if the step fails in between it must
// call Rollback before the next step begins.
//
// Corpus is safe for concurrent use, but only one crawl may write to it at a
// time.
type Corpus struct {
	mu       sync.RWMutex
	urls     []string
	titles   []string
	contents []string
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{}
}

// Restore replaces the corpus contents with previously persisted sequences.
// Returns EINVALID if the sequences differ in length.
func (c *Corpus) Restore(urls, titles, contents []string) error {
	if len(urls) != len(titles) || len(urls) != len(contents) {
		return Errorf(EINVALID, "corpus sequences differ in length: urls=%d titles=%d contents=%d",
			len(urls), len(titles), len(contents))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append([]string(nil), urls...)
	c.titles = append([]string(nil), titles...)
	c.contents = append([]string(nil), contents...)
	return nil
}

// Len returns the number of committed documents, the length of the shortest
// sequence.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.committed()
}

func (c *Corpus) committed() int {
	return min(len(c.urls), len(c.titles), len(c.contents))
}

// Lens returns the raw length of each sequence.
func (c *Corpus) Lens() (urls, titles, contents int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.urls), len(c.titles), len(c.contents)
}

// Consistent reports whether all three sequences have the same length.
func (c *Corpus) Consistent() bool {
	u, t, ct := c.Lens()
	return u == t && t == ct
}

// AppendURL appends a URL and returns the position it was stored at.
func (c *Corpus) AppendURL(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append(c.urls, url)
	return len(c.urls) - 1
}

// AppendTitle appends a title.
func (c *Corpus) AppendTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles = append(c.titles, title)
}

// AppendContent appends normalized content.
func (c *Corpus) AppendContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents = append(c.contents, content)
}

// Rollback truncates every sequence longer than n back to n entries.
func (c *Corpus) Rollback(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.urls = c.urls[:min(n, len(c.urls))]
	c.titles = c.titles[:min(n, len(c.titles))]
	c.contents = c.contents[:min(n, len(c.contents))]
}

// Document returns the committed document at position id.
// Returns ENOTFOUND if no such document exists.
func (c *Corpus) Document(id int) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 0 || id >= c.committed() {
		return nil, Errorf(ENOTFOUND, "document %d not found", id)
	}
	return &Document{
		ID:      id,
		URL:     c.urls[id],
		Title:   c.titles[id],
		Content: c.contents[id],
	}, nil
}

// Documents returns every committed document in ID order.
func (c *Corpus) Documents() []*Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := c.committed()
	docs := make([]*Document, n)
	for i := 0; i < n; i++ {
		docs[i] = &Document{ID: i, URL: c.urls[i], Title: c.titles[i], Content: c.contents[i]}
	}
	return docs
}

// URLs returns a copy of the committed URLs.
func (c *Corpus) URLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.urls[:c.committed()]...)
}

// Contents returns a copy of the committed contents.
func (c *Corpus) Contents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.contents[:c.committed()]...)
}
