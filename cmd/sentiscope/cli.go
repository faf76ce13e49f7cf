package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/crawl"
	"github.com/fwojciec/sentiscope/index"
	"github.com/fwojciec/sentiscope/prometheus"
	"github.com/fwojciec/sentiscope/redis"
	goredis "github.com/redis/go-redis/v9"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Corpus     *sentiscope.Corpus
	Index      *sentiscope.Index
	Crawls     sentiscope.CrawlService
	Crawler    *crawl.Crawler
	Indexer    *index.Indexer
	Classifier sentiscope.SentimentClassifier
	Searcher   sentiscope.Searcher
	Generator  sentiscope.Generator
	Metrics    *prometheus.Metrics

	// Redis is set when a search cache is configured and reachable.
	Redis *goredis.Client
	Cache *redis.SearchCache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl from a seed URL and index the new pages"`
	Index    IndexCmd    `cmd:"" help:"Classify and index every document not yet indexed"`
	Search   SearchCmd   `cmd:"" help:"Search the index"`
	Similar  SimilarCmd  `cmd:"" help:"Find the indexed word closest in meaning to a word"`
	Docs     DocsCmd     `cmd:"" help:"List crawled documents"`
	Generate GenerateCmd `cmd:"" help:"Generate new text from a stored document"`
	History  HistoryCmd  `cmd:"" help:"List past crawls"`
	Cleanup  CleanupCmd  `cmd:"" help:"Delete the corpus, the index and the document files"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL       string `arg:"" help:"Seed URL"`
	Max       int    `short:"n" default:"-1" help:"Maximum number of pages to download (default from config)"`
	Browser   bool   `short:"b" help:"Render pages with headless Chrome"`
	Extractor string `short:"e" help:"Text extractor: goquery (whole page), trafilatura or readability (main content)"`
	NoIndex   bool   `help:"Do not index the downloaded pages"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query        []string `arg:"" help:"Search words"`
	Limit        int      `short:"l" default:"0" help:"Maximum number of results (default from config)"`
	MinSentiment float64  `short:"s" default:"-1" help:"Hide results with a lower sentiment score"`
}

// SimilarCmd is the "similar" subcommand.
type SimilarCmd struct {
	Word  string `arg:"" help:"Word to look up"`
	Limit int    `short:"l" default:"0" help:"Maximum number of results (default from config)"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Full bool `help:"Show document content"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	ID int `arg:"" help:"Document ID"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Seed  string `help:"Only show crawls from this seed URL"`
	Limit int    `short:"l" default:"20" help:"Maximum number of crawls"`
}

// CleanupCmd is the "cleanup" subcommand.
type CleanupCmd struct {
	Force bool `help:"Confirm deletion"`
}
