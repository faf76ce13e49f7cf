package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlService_CreateCrawl(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and stores the session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCrawlService(setupTestDB(t))
		ctx := context.Background()
		started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		session := &sentiscope.CrawlSession{
			SeedURL:      "https://example.com",
			MaxDownloads: 10,
			Downloaded:   7,
			Failed:       2,
			RolledBack:   1,
			StartedAt:    started,
			FinishedAt:   started.Add(90 * time.Second),
		}
		require.NoError(t, svc.CreateCrawl(ctx, session))
		assert.NotEmpty(t, session.ID)

		found, err := svc.FindCrawls(ctx, sentiscope.CrawlFilter{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, session, found[0])
	})

	t.Run("rejects an invalid session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCrawlService(setupTestDB(t))

		err := svc.CreateCrawl(context.Background(), &sentiscope.CrawlSession{})

		assert.Equal(t, sentiscope.EINVALID, sentiscope.ErrorCode(err))
	})
}

func TestCrawlService_FindCrawls(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewCrawlService(db)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, seed := range []string{"https://a.com", "https://b.com", "https://a.com"} {
		require.NoError(t, svc.CreateCrawl(ctx, &sentiscope.CrawlSession{
			SeedURL:      seed,
			MaxDownloads: i + 1,
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			FinishedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	t.Run("returns most recent first", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindCrawls(ctx, sentiscope.CrawlFilter{})

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, 3, found[0].MaxDownloads)
		assert.Equal(t, 1, found[2].MaxDownloads)
	})

	t.Run("filters by seed", func(t *testing.T) {
		t.Parallel()

		seed := "https://a.com"
		found, err := svc.FindCrawls(ctx, sentiscope.CrawlFilter{SeedURL: &seed})

		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindCrawls(ctx, sentiscope.CrawlFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 2, found[0].MaxDownloads)
	})

	t.Run("skips without a limit", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindCrawls(ctx, sentiscope.CrawlFilter{Offset: 2})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 1, found[0].MaxDownloads)
	})
}
