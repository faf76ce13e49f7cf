package sqlite

import (
	"strings"
	"time"

	"github.com/fwojciec/sentiscope"
)

// Timestamps are stored as RFC 3339 text in UTC, truncated to the second.
const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, sentiscope.Errorf(sentiscope.EINTERNAL, "bad %s %q in crawls table", column, value)
	}
	return t, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCrawl reads one row of crawlColumns.
func scanCrawl(s scanner) (*sentiscope.CrawlSession, error) {
	var session sentiscope.CrawlSession
	var startedAt, finishedAt string
	if err := s.Scan(&session.ID, &session.SeedURL, &session.MaxDownloads, &session.Downloaded,
		&session.Failed, &session.RolledBack, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if session.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if session.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &session, nil
}

// paginate appends LIMIT and OFFSET clauses. SQLite only accepts OFFSET after
// a LIMIT, so an offset without a limit uses LIMIT -1.
func paginate(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
