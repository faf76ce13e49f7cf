package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	main "github.com/fwojciec/sentiscope/cmd/sentiscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing optional file yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(filepath.Join(t.TempDir(), "none.yaml"), false, envMap(nil))

		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Crawl.MaxDownloads)
		assert.Equal(t, 12, cfg.Search.Limit)
		assert.Equal(t, "sqlite", cfg.Index.Backend)
		assert.Equal(t, "goquery", cfg.Crawl.Extractor)
		assert.Equal(t, 10*time.Second, cfg.Crawl.Timeout)
	})

	t.Run("missing required file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "none.yaml"), true, envMap(nil))

		assert.Error(t, err)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
dataDir: /tmp/sentiscope
logging:
  format: json
crawl:
  maxDownloads: 7
  timeout: 3s
  extractor: trafilatura
index:
  backend: bolt
redis:
  addr: localhost:6379
  ttl: 1m
metrics:
  textfile: /tmp/sentiscope.prom
`), 0o644))

		cfg, err := main.LoadConfig(path, true, envMap(nil))

		require.NoError(t, err)
		assert.Equal(t, "/tmp/sentiscope", cfg.DataDir)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, 7, cfg.Crawl.MaxDownloads)
		assert.Equal(t, 3*time.Second, cfg.Crawl.Timeout)
		assert.Equal(t, "trafilatura", cfg.Crawl.Extractor)
		assert.Equal(t, "bolt", cfg.Index.Backend)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, time.Minute, cfg.Redis.TTL)
		assert.Equal(t, "/tmp/sentiscope.prom", cfg.Metrics.Textfile)
		// Untouched fields keep their defaults.
		assert.Equal(t, 12, cfg.Search.Limit)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dataDir: /from/file\n"), 0o644))

		cfg, err := main.LoadConfig(path, true, envMap(map[string]string{
			"SENTISCOPE_DATA":          "/from/env",
			"SENTISCOPE_WORDNET":       "/usr/share/wordnet",
			"GEMINI_API_KEY":           "key",
			"SENTISCOPE_REDIS_ADDR":    "redis:6379",
			"SENTISCOPE_MAX_DOWNLOADS": "3",
		}))

		require.NoError(t, err)
		assert.Equal(t, "/from/env", cfg.DataDir)
		assert.Equal(t, "/usr/share/wordnet", cfg.WordNetDir)
		assert.Equal(t, "key", cfg.Gemini.APIKey)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 3, cfg.Crawl.MaxDownloads)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("crawl: [unclosed"), 0o644))

		_, err := main.LoadConfig(path, true, envMap(nil))

		assert.Error(t, err)
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("index:\n  backend: postgres\n"), 0o644))

		_, err := main.LoadConfig(path, true, envMap(nil))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})
}

func TestConfig_Paths(t *testing.T) {
	t.Parallel()

	cfg := main.DefaultConfig()
	cfg.DataDir = "/data"

	assert.Equal(t, filepath.Join("/data", "sentiscope.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join("/data", "index.bolt"), cfg.BoltPath())
	assert.Equal(t, filepath.Join("/data", "docs"), cfg.DocsDir())
}

func TestConfig_Validate_AcceptsExtractors(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"goquery", "trafilatura", "readability"} {
		cfg := main.DefaultConfig()
		cfg.Crawl.Extractor = name
		assert.NoError(t, cfg.Validate(), name)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*main.Config)
	}{
		{name: "empty data dir", modify: func(c *main.Config) { c.DataDir = "" }},
		{name: "unknown extractor", modify: func(c *main.Config) { c.Crawl.Extractor = "regex" }},
		{name: "zero rate limit", modify: func(c *main.Config) { c.Crawl.RateLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := main.DefaultConfig()
			tt.modify(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
