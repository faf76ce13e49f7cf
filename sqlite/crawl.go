package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/sentiscope"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sentiscope.CrawlService = (*CrawlService)(nil)

const crawlColumns = "id, seed_url, max_downloads, downloaded, failed, rolled_back, started_at, finished_at"

// CrawlService implements sentiscope.CrawlService using SQLite.
type CrawlService struct {
	db *DB
}

// NewCrawlService creates a new CrawlService.
func NewCrawlService(db *DB) *CrawlService {
	return &CrawlService{db: db}
}

// CreateCrawl stores a finished session under a new ID.
func (s *CrawlService) CreateCrawl(ctx context.Context, session *sentiscope.CrawlSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	id := uuid.New().String()
	started, finished := formatTime(session.StartedAt), formatTime(session.FinishedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawls (`+crawlColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, session.SeedURL, session.MaxDownloads, session.Downloaded, session.Failed, session.RolledBack,
		started, finished)
	if err != nil {
		return err
	}

	session.ID = id
	session.StartedAt, _ = time.Parse(timeLayout, started)
	session.FinishedAt, _ = time.Parse(timeLayout, finished)
	return nil
}

// FindCrawls retrieves sessions matching the filter, most recent first.
func (s *CrawlService) FindCrawls(ctx context.Context, filter sentiscope.CrawlFilter) ([]*sentiscope.CrawlSession, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + crawlColumns + " FROM crawls WHERE 1=1")

	if filter.SeedURL != nil {
		query.WriteString(" AND seed_url = ?")
		args = append(args, *filter.SeedURL)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	paginate(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*sentiscope.CrawlSession
	for rows.Next() {
		session, err := scanCrawl(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}
