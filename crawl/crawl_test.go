package crawl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/crawl"
	"github.com/fwojciec/sentiscope/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPage describes one page of a fake site. A page with an empty title is
// fetched successfully but has no <title>.
type testPage struct {
	title string
	text  string
	links []string
}

// newTestCrawler returns a crawler over a fake site. Fetching a URL that is
// not in pages fails like a 404. The returned slice records every fetched URL.
func newTestCrawler(pages map[string]testPage) (*crawl.Crawler, *[]string, *int) {
	var fetched []string
	var saves int

	c := &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				if _, ok := pages[url]; !ok {
					return "", errors.New("status 404")
				}
				return url, nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*sentiscope.ExtractResult, error) {
				p := pages[html]
				return &sentiscope.ExtractResult{Title: p.title, Text: p.text}, nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractLinksFn: func(html string, _ string) ([]string, error) {
				return pages[html].links, nil
			},
		},
		Corpus: sentiscope.NewCorpus(),
		Storage: &mock.CorpusStorage{
			SaveCorpusFn: func(_ context.Context, _ *sentiscope.Corpus) error {
				saves++
				return nil
			},
		},
	}
	return c, &fetched, &saves
}

func collect(t *testing.T, itr *crawl.Iterator) []crawl.Page {
	t.Helper()
	var pages []crawl.Page
	for itr.Next(context.Background()) {
		pages = append(pages, itr.Page())
	}
	return pages
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("single download commits one entry to each sequence", func(t *testing.T) {
		t.Parallel()

		c, _, saves := newTestCrawler(map[string]testPage{
			"https://example.com/a": {title: "Page A", text: "Hello\n\nWorld", links: []string{"https://example.com/b"}},
			"https://example.com/b": {title: "Page B", text: "b"},
		})

		itr := c.Crawl("https://example.com/a", 1)
		pages := collect(t, itr)

		require.NoError(t, itr.Err())
		require.Len(t, pages, 1)
		assert.Equal(t, crawl.Page{ID: 0, URL: "https://example.com/a", Title: "Page A", Content: "hello\nworld"}, pages[0])

		urls, titles, contents := c.Corpus.Lens()
		assert.Equal(t, 1, urls)
		assert.Equal(t, 1, titles)
		assert.Equal(t, 1, contents)
		assert.Equal(t, 1, *saves)
		assert.Equal(t, crawl.Result{Downloaded: 1}, itr.Result())
	})

	t.Run("visits pages breadth first", func(t *testing.T) {
		t.Parallel()

		c, fetched, _ := newTestCrawler(map[string]testPage{
			"https://example.com":        {title: "Root", links: []string{"https://example.com/a", "https://example.com/b"}},
			"https://example.com/a":      {title: "A", links: []string{"https://example.com/a/deep"}},
			"https://example.com/b":      {title: "B"},
			"https://example.com/a/deep": {title: "Deep"},
		})

		pages := collect(t, c.Crawl("https://example.com/", 10))

		require.Len(t, pages, 4)
		assert.Equal(t, []string{
			"https://example.com",
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/a/deep",
		}, *fetched)
		for i, p := range pages {
			assert.Equal(t, i, p.ID)
		}
	})

	t.Run("never exceeds the download cap", func(t *testing.T) {
		t.Parallel()

		links := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3", "https://example.com/4"}
		pages := map[string]testPage{"https://example.com": {title: "Root", links: links}}
		for _, l := range links {
			pages[l] = testPage{title: l}
		}
		c, fetched, saves := newTestCrawler(pages)

		itr := c.Crawl("https://example.com", 3)
		got := collect(t, itr)

		assert.Len(t, got, 3)
		assert.Equal(t, 3, c.Corpus.Len())
		assert.Len(t, *fetched, 3, "no fetch should happen once the cap is reached")
		assert.Equal(t, 1, *saves)
	})

	t.Run("does not enqueue the same canonical URL twice", func(t *testing.T) {
		t.Parallel()

		c, fetched, _ := newTestCrawler(map[string]testPage{
			"https://x.com": {title: "Root", links: []string{
				"https://x.com/a",
				"https://x.com/a/",
				"https://x.com/a#sec",
				"https://x.com",
			}},
			"https://x.com/a": {title: "A", links: []string{"https://x.com/a/#top"}},
		})

		collect(t, c.Crawl("https://x.com", 10))

		assert.Equal(t, []string{"https://x.com", "https://x.com/a"}, *fetched)
	})

	t.Run("skips disallowed links", func(t *testing.T) {
		t.Parallel()

		c, fetched, _ := newTestCrawler(map[string]testPage{
			"https://example.com": {title: "Root", links: []string{
				"https://example.com/report.pdf",
				"mailto:me@example.com",
				"ftp://example.com/file",
				"https://example.com/ok",
			}},
			"https://example.com/ok": {title: "OK"},
		})

		collect(t, c.Crawl("https://example.com", 10))

		assert.Equal(t, []string{"https://example.com", "https://example.com/ok"}, *fetched)
	})

	t.Run("failed fetches leave the corpus untouched", func(t *testing.T) {
		t.Parallel()

		c, fetched, _ := newTestCrawler(map[string]testPage{
			"https://example.com": {title: "Root", links: []string{
				"https://example.com/missing",
				"https://example.com/untitled",
				"https://example.com/ok",
			}},
			"https://example.com/untitled": {text: "no title here"},
			"https://example.com/ok":       {title: "OK"},
		})

		itr := c.Crawl("https://example.com", 10)
		pages := collect(t, itr)

		require.NoError(t, itr.Err())
		require.Len(t, pages, 2)
		assert.Equal(t, 1, pages[1].ID)
		assert.Len(t, *fetched, 4)
		assert.Equal(t, []string{"https://example.com", "https://example.com/ok"}, c.Corpus.URLs())
		assert.Equal(t, crawl.Result{Downloaded: 2, Failed: 2}, itr.Result())
	})

	t.Run("rolls back a page whose commit fails", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newTestCrawler(map[string]testPage{
			"https://example.com":      {title: "Root", links: []string{"https://example.com/bad", "https://example.com/good"}},
			"https://example.com/bad":  {title: "Bad", text: "bad"},
			"https://example.com/good": {title: "Good", text: "good"},
		})
		c.Writer = &mock.DocumentWriter{
			WriteDocumentFn: func(_ context.Context, doc *sentiscope.Document) error {
				if doc.URL == "https://example.com/bad" {
					return errors.New("disk full")
				}
				return nil
			},
		}
		var events []crawl.ProgressType
		c.Progress = func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressRolledBack {
				assert.True(t, c.Corpus.Consistent())
				assert.Equal(t, 1, e.ID)
			}
			events = append(events, e.Type)
		}

		itr := c.Crawl("https://example.com", 10)
		var ids []int
		for itr.Next(context.Background()) {
			assert.True(t, c.Corpus.Consistent())
			ids = append(ids, itr.Page().ID)
		}

		require.NoError(t, itr.Err())
		assert.Equal(t, []int{0, 1}, ids)
		assert.True(t, c.Corpus.Consistent())
		assert.Equal(t, []string{"https://example.com", "https://example.com/good"}, c.Corpus.URLs())
		assert.Equal(t, "good", c.Corpus.Contents()[1])
		assert.Equal(t, 1, itr.Result().RolledBack)
		assert.Contains(t, events, crawl.ProgressRolledBack)
		assert.Equal(t, crawl.ProgressFinished, events[len(events)-1])
	})

	t.Run("does not refetch URLs already in the corpus", func(t *testing.T) {
		t.Parallel()

		c, fetched, _ := newTestCrawler(map[string]testPage{
			"https://example.com":     {title: "Root", links: []string{"https://example.com/old", "https://example.com/new"}},
			"https://example.com/new": {title: "New"},
		})
		require.NoError(t, c.Corpus.Restore([]string{"https://example.com/old"}, []string{"Old"}, []string{"old"}))

		pages := collect(t, c.Crawl("https://example.com", 10))

		require.Len(t, pages, 2)
		assert.Equal(t, 1, pages[0].ID)
		assert.Equal(t, []string{"https://example.com", "https://example.com/new"}, *fetched)
	})

	t.Run("does not filter the seed by extension", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newTestCrawler(map[string]testPage{
			"https://example.com/paper.pdf": {title: "Paper"},
		})

		pages := collect(t, c.Crawl("https://example.com/paper.pdf", 1))

		assert.Len(t, pages, 1)
	})

	t.Run("rejects a non-http seed", func(t *testing.T) {
		t.Parallel()

		c, fetched, saves := newTestCrawler(nil)

		itr := c.Crawl("ftp://example.com", 1)

		assert.False(t, itr.Next(context.Background()))
		assert.Equal(t, sentiscope.EINVALID, sentiscope.ErrorCode(itr.Err()))
		assert.Empty(t, *fetched)
		assert.Equal(t, 0, *saves)
	})

	t.Run("returns storage errors from Err", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newTestCrawler(map[string]testPage{"https://example.com": {title: "Root"}})
		c.Storage = &mock.CorpusStorage{
			SaveCorpusFn: func(_ context.Context, _ *sentiscope.Corpus) error {
				return errors.New("disk I/O error")
			},
		}

		itr := c.Crawl("https://example.com", 5)
		collect(t, itr)

		require.Error(t, itr.Err())
		assert.Contains(t, itr.Err().Error(), "disk I/O error")
	})

	t.Run("stops on cancellation and still flushes", func(t *testing.T) {
		t.Parallel()

		c, fetched, saves := newTestCrawler(map[string]testPage{
			"https://example.com":   {title: "Root", links: []string{"https://example.com/a"}},
			"https://example.com/a": {title: "A"},
		})
		ctx, cancel := context.WithCancel(context.Background())

		itr := c.Crawl("https://example.com", 10)
		require.True(t, itr.Next(ctx))
		cancel()

		assert.False(t, itr.Next(ctx))
		assert.ErrorIs(t, itr.Err(), context.Canceled)
		assert.Len(t, *fetched, 1)
		assert.Equal(t, 1, *saves)
	})

	t.Run("records the crawl session", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newTestCrawler(map[string]testPage{
			"https://example.com": {title: "Root", links: []string{"https://example.com/gone"}},
		})
		var session *sentiscope.CrawlSession
		c.Crawls = &mock.CrawlService{
			CreateCrawlFn: func(_ context.Context, s *sentiscope.CrawlSession) error {
				session = s
				return nil
			},
		}

		itr := c.Crawl("https://example.com/", 5)
		collect(t, itr)

		require.NoError(t, itr.Err())
		require.NotNil(t, session)
		assert.Equal(t, "https://example.com", session.SeedURL)
		assert.Equal(t, 5, session.MaxDownloads)
		assert.Equal(t, 1, session.Downloaded)
		assert.Equal(t, 1, session.Failed)
		assert.False(t, session.FinishedAt.Before(session.StartedAt))
	})

	t.Run("waits on the rate limiter before each fetch", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newTestCrawler(map[string]testPage{
			"https://example.com":   {title: "Root", links: []string{"https://example.com/a"}},
			"https://example.com/a": {title: "A"},
		})
		var waited []string
		c.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, url string) error {
				waited = append(waited, url)
				return nil
			},
		}

		collect(t, c.Crawl("https://example.com", 10))

		assert.Equal(t, []string{"https://example.com", "https://example.com/a"}, waited)
	})

	t.Run("Close flushes a crawl that was not drained", func(t *testing.T) {
		t.Parallel()

		c, _, saves := newTestCrawler(map[string]testPage{
			"https://example.com":   {title: "Root", links: []string{"https://example.com/a"}},
			"https://example.com/a": {title: "A"},
		})

		itr := c.Crawl("https://example.com", 10)
		require.True(t, itr.Next(context.Background()))

		require.NoError(t, itr.Close(context.Background()))
		assert.False(t, itr.Next(context.Background()))
		assert.Equal(t, 1, *saves)
		assert.Equal(t, 1, c.Corpus.Len())
	})
}

func TestProgressType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rolled_back", crawl.ProgressRolledBack.String())
	assert.True(t, strings.HasPrefix(crawl.ProgressType(99).String(), "ProgressType("))
}
