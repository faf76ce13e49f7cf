// Package crawl provides the breadth-first web crawler that feeds the corpus.
// It coordinates the frontier, fetching, extraction and the rollback of
// half-committed documents.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Crawler fetches pages breadth-first from a seed URL and appends every page
// it keeps to the corpus. Only one crawl may run against a corpus at a time.
type Crawler struct {
	Fetcher   sentiscope.Fetcher
	Extractor sentiscope.Extractor
	Links     sentiscope.LinkExtractor
	Corpus    *sentiscope.Corpus
	Storage   sentiscope.CorpusStorage

	// Optional collaborators.
	Writer      sentiscope.DocumentWriter
	RateLimiter sentiscope.DomainLimiter
	Crawls      sentiscope.CrawlService
	Progress    ProgressFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Page is a document emitted by the crawl as soon as it is committed.
type Page struct {
	ID      int
	URL     string
	Title   string
	Content string
}

// Result holds the outcome of a crawl.
type Result struct {
	Downloaded int
	Failed     int
	RolledBack int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type       ProgressType
	URL        string
	ID         int
	Downloaded int
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	// ProgressStarted is sent once, before the first fetch.
	ProgressStarted ProgressType = iota
	// ProgressFetching is sent when a URL leaves the frontier.
	ProgressFetching
	// ProgressCompleted is sent when a page was committed to the corpus.
	ProgressCompleted
	// ProgressFailed is sent when a URL was skipped without touching the corpus.
	ProgressFailed
	// ProgressRolledBack is sent when a half-committed page was removed again.
	ProgressRolledBack
	// ProgressFinished is sent after the corpus was flushed.
	ProgressFinished
)

func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressFetching:
		return "fetching"
	case ProgressCompleted:
		return "completed"
	case ProgressFailed:
		return "failed"
	case ProgressRolledBack:
		return "rolled_back"
	case ProgressFinished:
		return "finished"
	}
	return fmt.Sprintf("ProgressType(%d)", int(t))
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl returns an iterator over the pages reachable from seedURL. At most
// maxDownloads pages are committed. The iterator is lazy: nothing is fetched
// until the first call to Next.
//
// The seed must be an http(s) URL. It is always fetched, even when the
// corpus already holds it; only discovered links go through AcceptLink.
func (c *Crawler) Crawl(seedURL string, maxDownloads int) *Iterator {
	itr := &Iterator{
		crawler: c,
		seed:    Canonicalize(seedURL),
		max:     maxDownloads,
	}
	switch {
	case itr.seed == "" || !IsHTTP(itr.seed):
		itr.err = sentiscope.Errorf(sentiscope.EINVALID, "seed URL must be http or https: %q", seedURL)
		itr.done = true
	case maxDownloads < 0:
		itr.err = sentiscope.Errorf(sentiscope.EINVALID, "max downloads must not be negative")
		itr.done = true
	}
	return itr
}

// Iterator walks the crawl one committed page at a time. It carries the
// frontier, the visited set and the counters, and cannot be restarted.
type Iterator struct {
	crawler *Crawler
	seed    string
	max     int

	frontier  *Frontier
	started   bool
	startedAt time.Time
	done      bool

	page   Page
	result Result
	err    error
}

// Next advances to the next committed page. It returns false once the
// frontier is exhausted, the cap is reached, ctx is canceled or a fatal
// error occurred; the corpus has then been flushed to storage exactly once.
func (itr *Iterator) Next(ctx context.Context) bool {
	if itr.done {
		return false
	}
	if !itr.started {
		itr.start()
	}

	for itr.result.Downloaded < itr.max {
		if err := ctx.Err(); err != nil {
			itr.finish(ctx, err)
			return false
		}

		url, ok := itr.frontier.Pop()
		if !ok {
			break
		}

		if ok, err := itr.step(ctx, url); err != nil {
			itr.finish(ctx, err)
			return false
		} else if ok {
			return true
		}
	}

	itr.finish(ctx, nil)
	return false
}

// Page returns the page committed by the last successful call to Next.
func (itr *Iterator) Page() Page { return itr.page }

// Result returns the crawl counters so far.
func (itr *Iterator) Result() Result { return itr.result }

// Err returns the error that ended the crawl, if any.
func (itr *Iterator) Err() error { return itr.err }

// Close ends the crawl early. It flushes the corpus unless the crawl has
// already finished.
func (itr *Iterator) Close(ctx context.Context) error {
	if !itr.done {
		if !itr.started {
			itr.start()
		}
		itr.finish(ctx, nil)
	}
	return itr.err
}

func (itr *Iterator) start() {
	c := itr.crawler
	itr.started = true
	itr.startedAt = c.now()
	itr.frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	itr.frontier.Push(itr.seed)
	for _, u := range c.Corpus.URLs() {
		itr.frontier.Visit(u)
	}
	c.emit(ProgressEvent{Type: ProgressStarted, URL: itr.seed})
}

// step processes one frontier entry. It reports whether a page was committed.
// A non-nil error ends the crawl.
func (itr *Iterator) step(ctx context.Context, url string) (bool, error) {
	c := itr.crawler

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, url); err != nil {
			return false, err
		}
	}

	c.emit(ProgressEvent{Type: ProgressFetching, URL: url, Downloaded: itr.result.Downloaded})

	html, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		itr.fail(url, fmt.Errorf("fetch: %w", err))
		return false, nil
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		itr.fail(url, fmt.Errorf("extract: %w", err))
		return false, nil
	}
	if extracted.Title == "" {
		itr.fail(url, errors.New("page has no title"))
		return false, nil
	}

	content := sentiscope.NormalizeText(extracted.Text)
	mark := c.Corpus.Len()
	id := c.Corpus.AppendURL(url)

	if c.Writer != nil {
		doc := &sentiscope.Document{
			ID:      id,
			URL:     url,
			Title:   extracted.Title,
			Content: content,
		}
		if err := c.Writer.WriteDocument(ctx, doc); err != nil {
			c.Corpus.Rollback(mark)
			itr.result.RolledBack++
			c.emit(ProgressEvent{Type: ProgressRolledBack, URL: url, ID: id, Downloaded: itr.result.Downloaded, Error: err})
			return false, nil
		}
	}

	c.Corpus.AppendContent(content)
	c.Corpus.AppendTitle(extracted.Title)
	itr.result.Downloaded++
	itr.page = Page{ID: id, URL: url, Title: extracted.Title, Content: content}

	if links, err := c.Links.ExtractLinks(html, url); err == nil {
		for _, link := range links {
			if AcceptLink(link) {
				itr.frontier.Push(link)
			}
		}
	}

	c.emit(ProgressEvent{Type: ProgressCompleted, URL: url, ID: id, Downloaded: itr.result.Downloaded})
	return true, nil
}

func (itr *Iterator) fail(url string, err error) {
	itr.result.Failed++
	itr.crawler.emit(ProgressEvent{Type: ProgressFailed, URL: url, Downloaded: itr.result.Downloaded, Error: err})
}

// finish flushes the corpus and records the session. cause is the error that
// ended the crawl early, if any; storage failures take precedence.
func (itr *Iterator) finish(ctx context.Context, cause error) {
	c := itr.crawler
	itr.done = true
	itr.page = Page{}
	itr.err = cause

	// Flush even when the crawl was canceled.
	ctx = context.WithoutCancel(ctx)

	if err := c.Storage.SaveCorpus(ctx, c.Corpus); err != nil {
		itr.err = fmt.Errorf("save corpus: %w", err)
		return
	}

	if c.Crawls != nil {
		session := &sentiscope.CrawlSession{
			SeedURL:      itr.seed,
			MaxDownloads: itr.max,
			Downloaded:   itr.result.Downloaded,
			Failed:       itr.result.Failed,
			RolledBack:   itr.result.RolledBack,
			StartedAt:    itr.startedAt,
			FinishedAt:   c.now(),
		}
		if err := c.Crawls.CreateCrawl(ctx, session); err != nil {
			itr.err = fmt.Errorf("record crawl: %w", err)
			return
		}
	}

	c.emit(ProgressEvent{Type: ProgressFinished, Downloaded: itr.result.Downloaded})
}

func (c *Crawler) emit(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
