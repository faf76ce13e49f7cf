package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sentiscope"
	main "github.com/fwojciec/sentiscope/cmd/sentiscope"
	"github.com/fwojciec/sentiscope/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = map[string]string{
	"https://example.com": `<html><head><title>Home</title></head><body>
<p>Python programming is great</p>
<a href="/cats">Read about cats</a>
<a href="/broken">Broken</a>
</body></html>`,
	"https://example.com/cats": `<html><head><title>Cats</title></head><body>
<p>Cats are lovely animals</p>
<a href="/">Home</a>
</body></html>`,
}

// newTestMain returns a Main that keeps all state in a temporary directory
// and never touches the network.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()

	cfg := main.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Crawl.RateLimit = 1000

	m := main.NewMain()
	m.Config = cfg
	m.Getenv = func(string) string { return "" }
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := testSite[url]
			if !ok {
				return "", fmt.Errorf("HTTP 404 for %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
	m.Classifier = &mock.SentimentClassifier{
		ClassifyFn: func(_ context.Context, texts []string) ([]float64, error) {
			scores := make([]float64, len(texts))
			for i := range scores {
				scores[i] = 0.5
			}
			return scores, nil
		},
	}
	m.Generator = &mock.Generator{
		GenerateFn: func(_ context.Context, text string) (string, error) {
			return "generated from: " + text[:min(len(text), 20)], nil
		},
	}
	return m
}

func run(t *testing.T, m *main.Main, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err = m.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestMain_Run_CrawlThenSearch(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	stdout, stderr, err := run(t, m, "crawl", "https://example.com/", "-n", "10")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[0] Home")
	assert.Contains(t, stdout, "[1] Cats")
	assert.Contains(t, stdout, "Downloaded 2 pages (1 failed, 0 rolled back)")
	assert.Contains(t, stdout, "Indexed 2 documents")
	assert.Contains(t, stderr, "skip example.com/broken")

	stdout, _, err = run(t, m, "search", "python")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1. Home")
	assert.Contains(t, stdout, "sentiment=+0.50")
	assert.NotContains(t, stdout, "Cats")

	stdout, _, err = run(t, m, "search", "cats", "python")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Home")
	assert.Contains(t, stdout, "Cats")
}

func TestMain_Run_CrawlWritesDocumentFiles(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "https://example.com", "--no-index")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(m.Config.DocsDir(), "example_com.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "python programming is great")
}

func TestMain_Run_CrawlNoIndex(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	m.Classifier = nil

	stdout, _, err := run(t, m, "crawl", "https://example.com", "--no-index")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Indexed")

	stdout, _, err = run(t, m, "docs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Documents (2 total, 0 indexed)")
}

func TestMain_Run_CrawlRequiresAPIKeyToIndex(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	m.Classifier = nil

	_, stderr, err := run(t, m, "crawl", "https://example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, stderr, "GEMINI_API_KEY")
}

func TestMain_Run_CrawlInvalidSeed(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "ftp://example.com", "--no-index")

	require.Error(t, err)
	assert.Equal(t, sentiscope.EINVALID, sentiscope.ErrorCode(err))
}

func TestMain_Run_CrawlUnknownExtractor(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "https://example.com", "-e", "regex")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "regex")
}

func TestMain_Run_CrawlWithReadabilityExtractor(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	stdout, _, err := run(t, m, "crawl", "https://example.com", "-e", "readability", "--no-index")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Downloaded")
}

func TestMain_Run_IndexCatchesUp(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "https://example.com", "--no-index")
	require.NoError(t, err)

	stdout, _, err := run(t, m, "index")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed 2 documents")

	stdout, _, err = run(t, m, "index")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Index is up to date.")
}

func TestMain_Run_BoltBackend(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	m.Config.Index.Backend = "bolt"

	_, _, err := run(t, m, "crawl", "https://example.com")
	require.NoError(t, err)
	assert.FileExists(t, m.Config.BoltPath())

	stdout, _, err := run(t, m, "search", "lovely")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cats")
}

func TestMain_Run_SearchFallsBackToTaxonomy(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	m.Taxonomy = &mock.Taxonomy{
		SenseFn: func(word string) (sentiscope.Sense, bool) {
			return sentiscope.Sense{Word: word, ID: "n:" + word}, true
		},
		SimilarityFn: func(a, b sentiscope.Sense) (float64, bool) {
			if a.Word == "kitten" && b.Word == "cats" {
				return 0.9, true
			}
			return 0.1, true
		},
	}

	_, _, err := run(t, m, "crawl", "https://example.com")
	require.NoError(t, err)

	stdout, _, err := run(t, m, "search", "kitten")
	require.NoError(t, err)
	assert.Contains(t, stdout, `No exact match. Showing results for "cats"`)
	assert.Contains(t, stdout, "Cats")

	stdout, _, err = run(t, m, "similar", "kitten")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Closest indexed word: cats")
}

func TestMain_Run_SearchWithoutTaxonomy(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "https://example.com")
	require.NoError(t, err)

	stdout, stderr, err := run(t, m, "search", "zebra")
	require.NoError(t, err)
	assert.Contains(t, stdout, `No results for "zebra"`)
	assert.Contains(t, stderr, "SENTISCOPE_WORDNET")
}

func TestMain_Run_History(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	stdout, _, err := run(t, m, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No crawls found")

	_, _, err = run(t, m, "crawl", "https://example.com", "--no-index")
	require.NoError(t, err)

	stdout, _, err = run(t, m, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://example.com")
	assert.Contains(t, stdout, "downloaded=2/100 failed=1")
}

func TestMain_Run_Generate(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "https://example.com", "--no-index")
	require.NoError(t, err)

	stdout, _, err := run(t, m, "generate", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "generated from: cats are lovely")

	_, stderr, err := run(t, m, "generate", "9")
	require.Error(t, err)
	assert.Equal(t, sentiscope.ENOTFOUND, sentiscope.ErrorCode(err))
	assert.Contains(t, stderr, "sentiscope docs")
}

func TestMain_Run_Cleanup(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, _, err := run(t, m, "crawl", "https://example.com")
	require.NoError(t, err)

	_, _, err = run(t, m, "cleanup")
	require.Error(t, err)
	assert.FileExists(t, m.Config.DBPath())

	stdout, _, err := run(t, m, "cleanup", "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed corpus")
	assert.NotContains(t, stdout, "cached searches")
	assert.NoFileExists(t, m.Config.DBPath())
	assert.NoDirExists(t, m.Config.DocsDir())

	stdout, _, err = run(t, m, "docs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No documents found")
}

func TestMain_Run_WritesMetricsTextfile(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	m.Config.Metrics.Textfile = filepath.Join(t.TempDir(), "sentiscope.prom")

	_, _, err := run(t, m, "crawl", "https://example.com")
	require.NoError(t, err)

	data, err := os.ReadFile(m.Config.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sentiscope_crawl_events_total{type="completed"} 2`)
	assert.Contains(t, string(data), "sentiscope_docs_indexed_total 2")
}

func TestMain_Run_Verbose(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	_, stderr, err := run(t, m, "--verbose", "crawl", "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=fetch")
	assert.Contains(t, stderr, "msg=classify")
}
