package main

import (
	"fmt"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/crawl"
)

// urlDisplayLen caps URLs in progress lines.
const urlDisplayLen = 80

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	limit := c.Max
	if limit < 0 {
		limit = deps.Config.Crawl.MaxDownloads
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, urlDisplayLen), event.Error)
		case crawl.ProgressRolledBack:
			fmt.Fprintf(deps.Stderr, "  rolled back %s: %v\n", crawl.TruncateURL(event.URL, urlDisplayLen), event.Error)
		}
	}
	if deps.Metrics != nil {
		progress = deps.Metrics.CrawlProgress(progress)
	}
	deps.Crawler.Progress = progress

	itr := deps.Crawler.Crawl(c.URL, limit)
	for itr.Next(deps.Ctx) {
		page := itr.Page()
		fmt.Fprintf(deps.Stdout, "  [%d] %s\n       %s\n", page.ID, page.Title, page.URL)
	}
	if err := itr.Err(); err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", sentiscope.ErrorMessage(err))
		return err
	}

	result := itr.Result()
	fmt.Fprintf(deps.Stdout, "Downloaded %d pages (%d failed, %d rolled back)\n",
		result.Downloaded, result.Failed, result.RolledBack)

	if c.NoIndex || deps.Classifier == nil {
		return nil
	}
	return indexPending(deps)
}

// indexPending classifies and indexes every document not yet indexed.
func indexPending(deps *Dependencies) error {
	n, err := deps.Indexer.IndexPending(deps.Ctx, deps.Classifier)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error indexing: %s\n", sentiscope.ErrorMessage(err))
		return err
	}
	if deps.Metrics != nil {
		deps.Metrics.DocsIndexed(n)
	}
	fmt.Fprintf(deps.Stdout, "Indexed %d documents (%d tokens)\n", n, deps.Index.Len())
	return nil
}
