package sentiscope

import (
	"context"
	"time"
)

// CrawlSession records one run of the crawler.
type CrawlSession struct {
	ID           string    `json:"id"`
	SeedURL      string    `json:"seedUrl"`
	MaxDownloads int       `json:"maxDownloads"`
	Downloaded   int       `json:"downloaded"`
	Failed       int       `json:"failed"`
	RolledBack   int       `json:"rolledBack"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// Validate returns an error if the session contains invalid fields.
func (s *CrawlSession) Validate() error {
	if s.SeedURL == "" {
		return Errorf(EINVALID, "crawl seed URL required")
	}
	if s.Downloaded > s.MaxDownloads && s.MaxDownloads >= 0 {
		return Errorf(EINVALID, "crawl downloaded %d pages, above its cap of %d", s.Downloaded, s.MaxDownloads)
	}
	return nil
}

// CrawlService records crawl sessions.
type CrawlService interface {
	// CreateCrawl stores a finished session, assigning its ID.
	CreateCrawl(ctx context.Context, s *CrawlSession) error

	// FindCrawls returns sessions, most recent first.
	FindCrawls(ctx context.Context, filter CrawlFilter) ([]*CrawlSession, error)
}

// CrawlFilter represents a filter for FindCrawls.
type CrawlFilter struct {
	SeedURL *string `json:"seedUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
