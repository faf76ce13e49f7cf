package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := sentiscope.CrawlFilter{Limit: c.Limit}
	if c.Seed != "" {
		filter.SeedURL = &c.Seed
	}

	crawls, err := deps.Crawls.FindCrawls(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiscope.ErrorMessage(err))
		return err
	}

	if len(crawls) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawls found. Use 'sentiscope crawl' to start one.")
		return nil
	}

	for _, s := range crawls {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  downloaded=%d/%d failed=%d rolled_back=%d  %s\n",
			s.ID, s.StartedAt.Local().Format(time.DateTime), s.SeedURL,
			s.Downloaded, s.MaxDownloads, s.Failed, s.RolledBack,
			s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
	}
	return nil
}
