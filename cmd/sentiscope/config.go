package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration file layout. Every field has a default, so the
// file is optional.
type Config struct {
	DataDir    string `yaml:"dataDir"`
	WordNetDir string `yaml:"wordnetDir"`

	Logging LoggingConfig `yaml:"logging"`
	Crawl   CrawlConfig   `yaml:"crawl"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig selects the log format ("text" or "json").
type LoggingConfig struct {
	Format string `yaml:"format"`
}

// CrawlConfig holds fetcher and politeness settings.
type CrawlConfig struct {
	MaxDownloads int           `yaml:"maxDownloads"`
	RateLimit    float64       `yaml:"rateLimit"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
	Browser      bool          `yaml:"browser"`
	BrowserPath  string        `yaml:"browserPath"`
	Extractor    string        `yaml:"extractor"`
	WriteDocs    bool          `yaml:"writeDocs"`
}

// IndexConfig selects the index storage backend ("sqlite" or "bolt").
type IndexConfig struct {
	Backend string `yaml:"backend"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	Limit int `yaml:"limit"`
}

// GeminiConfig holds the classifier and generator settings.
type GeminiConfig struct {
	APIKey         string `yaml:"apiKey"`
	Model          string `yaml:"model"`
	Concurrency    int    `yaml:"concurrency"`
	MaxInputTokens int    `yaml:"maxInputTokens"`
	TokenizerModel string `yaml:"tokenizerModel"`
}

// RedisConfig enables the search cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	TTL      time.Duration `yaml:"ttl"`
}

// MetricsConfig enables writing metrics to a node_exporter textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Logging: LoggingConfig{Format: "text"},
		Crawl: CrawlConfig{
			MaxDownloads: 100,
			RateLimit:    1.0,
			Timeout:      10 * time.Second,
			Extractor:    "goquery",
			WriteDocs:    true,
		},
		Index:  IndexConfig{Backend: "sqlite"},
		Search: SearchConfig{Limit: 12},
		Gemini: GeminiConfig{Concurrency: 4},
		Redis: RedisConfig{
			PoolSize: 10,
			TTL:      10 * time.Minute,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults and applies
// environment overrides read through getenv. A missing file is not an error
// unless required is set.
func LoadConfig(path string, required bool, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !required:
		case err != nil:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(cfg, getenv)
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("dataDir required")
	}
	switch c.Index.Backend {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("unknown index backend %q (want sqlite or bolt)", c.Index.Backend)
	}
	switch c.Crawl.Extractor {
	case "goquery", "trafilatura", "readability":
	default:
		return fmt.Errorf("unknown extractor %q (want goquery, trafilatura or readability)", c.Crawl.Extractor)
	}
	if c.Crawl.RateLimit <= 0 {
		return fmt.Errorf("crawl.rateLimit must be positive")
	}
	return nil
}

// DBPath returns the sqlite database file.
func (c *Config) DBPath() string { return filepath.Join(c.DataDir, "sentiscope.db") }

// BoltPath returns the bolt index file.
func (c *Config) BoltPath() string { return filepath.Join(c.DataDir, "index.bolt") }

// DocsDir returns the directory of per-document text files.
func (c *Config) DocsDir() string { return filepath.Join(c.DataDir, "docs") }

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv("SENTISCOPE_DATA"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("SENTISCOPE_WORDNET"); v != "" {
		cfg.WordNetDir = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := getenv("SENTISCOPE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := getenv("SENTISCOPE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := getenv("SENTISCOPE_MAX_DOWNLOADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Crawl.MaxDownloads = n
		}
	}
}

// defaultConfigPath returns $SENTISCOPE_CONFIG or ~/.sentiscope/config.yaml.
// The second result reports whether the path was set explicitly.
func defaultConfigPath(getenv func(string) string) (string, bool) {
	if path := getenv("SENTISCOPE_CONFIG"); path != "" {
		return path, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".sentiscope", "config.yaml"), false
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sentiscope"
	}
	return filepath.Join(home, ".sentiscope")
}
