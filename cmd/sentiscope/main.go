package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/bolt"
	"github.com/fwojciec/sentiscope/crawl"
	"github.com/fwojciec/sentiscope/fs"
	"github.com/fwojciec/sentiscope/gemini"
	"github.com/fwojciec/sentiscope/goquery"
	"github.com/fwojciec/sentiscope/htmltomarkdown"
	sentihttp "github.com/fwojciec/sentiscope/http"
	"github.com/fwojciec/sentiscope/index"
	"github.com/fwojciec/sentiscope/prometheus"
	"github.com/fwojciec/sentiscope/query"
	"github.com/fwojciec/sentiscope/readability"
	"github.com/fwojciec/sentiscope/redis"
	"github.com/fwojciec/sentiscope/rod"
	sslog "github.com/fwojciec/sentiscope/slog"
	"github.com/fwojciec/sentiscope/sqlite"
	"github.com/fwojciec/sentiscope/trafilatura"
	"github.com/fwojciec/sentiscope/wordnet"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Defaults to $SENTISCOPE_CONFIG or
	// ~/.sentiscope/config.yaml.
	ConfigPath string

	// Config, when set, is used instead of reading a file.
	Config *Config

	// Getenv reads environment overrides. Defaults to os.Getenv.
	Getenv func(string) string

	// Collaborators for end-to-end testing. Nil fields are built from the
	// configuration.
	Fetcher    sentiscope.Fetcher
	Classifier sentiscope.SentimentClassifier
	Generator  sentiscope.Generator
	Taxonomy   sentiscope.Taxonomy

	DB   *sqlite.DB
	Bolt *bolt.IndexStorage

	corpusStorage sentiscope.CorpusStorage
	closers       []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close releases every resource opened by Run.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	if m.Bolt != nil {
		errs = append(errs, m.Bolt.Close())
		m.Bolt = nil
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sentiscope"),
		kong.Description("Crawl the web into a sentiment-annotated search index"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sentiscope --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.loadConfig()
	if err != nil {
		return err
	}
	if cmd == "crawl" {
		if cli.Crawl.Browser {
			cfg.Crawl.Browser = true
		}
		if cli.Crawl.Extractor != "" {
			cfg.Crawl.Extractor = cli.Crawl.Extractor
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	deps.Config = cfg
	deps.Logger = sslog.NewLogger(stderr, cfg.Logging.Format, cli.Verbose)
	deps.Metrics = prometheus.New()
	defer m.Close()

	if cmd != "cleanup" {
		if err := m.openStorage(deps); err != nil {
			return err
		}
	}

	switch cmd {
	case "crawl":
		if err := m.wireCrawler(deps, cli.Verbose); err != nil {
			return err
		}
		if !cli.Crawl.NoIndex {
			if err := m.wireClassifier(deps, cli.Verbose); err != nil {
				return err
			}
		}
	case "index":
		if err := m.wireClassifier(deps, cli.Verbose); err != nil {
			return err
		}
	case "search", "similar":
		if err := m.wireSearcher(deps, cli.Verbose); err != nil {
			return err
		}
	case "generate":
		if err := m.wireGenerator(deps); err != nil {
			return err
		}
	case "cleanup":
		m.connectRedis(deps)
	}

	if err := kongCtx.Run(deps); err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := deps.Metrics.WriteToTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func (m *Main) loadConfig() (*Config, error) {
	if m.Config != nil {
		return m.Config, m.Config.Validate()
	}
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	path, required := m.ConfigPath, m.ConfigPath != ""
	if path == "" {
		path, required = defaultConfigPath(getenv)
	}
	return LoadConfig(path, required, getenv)
}

// openStorage opens the database and loads the corpus and the index.
func (m *Main) openStorage(deps *Dependencies) error {
	cfg := deps.Config
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", cfg.DataDir, err)
	}

	m.DB = sqlite.NewDB(cfg.DBPath())
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set SENTISCOPE_DATA to use a different data directory\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath(), err)
	}

	var indexStorage sentiscope.IndexStorage = sqlite.NewIndexStorage(m.DB)
	if cfg.Index.Backend == "bolt" {
		m.Bolt = bolt.NewIndexStorage(cfg.BoltPath())
		if err := m.Bolt.Open(); err != nil {
			return fmt.Errorf("failed to open index at %q: %w", cfg.BoltPath(), err)
		}
		indexStorage = m.Bolt
	}
	m.corpusStorage = sqlite.NewCorpusStorage(m.DB)

	corpus, err := m.corpusStorage.LoadCorpus(deps.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	idx, err := indexStorage.LoadIndex(deps.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	deps.Corpus = corpus
	deps.Index = idx
	deps.Crawls = sqlite.NewCrawlService(m.DB)
	deps.Indexer = &index.Indexer{Corpus: corpus, Index: idx, Storage: indexStorage}
	return nil
}

func (m *Main) wireCrawler(deps *Dependencies, verbose bool) error {
	cfg := deps.Config

	fetcher := m.Fetcher
	if fetcher == nil {
		if cfg.Crawl.Browser {
			f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Crawl.Timeout), rod.WithBrowser(cfg.Crawl.BrowserPath))
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = f
		} else {
			opts := []sentihttp.Option{sentihttp.WithTimeout(cfg.Crawl.Timeout)}
			if cfg.Crawl.UserAgent != "" {
				opts = append(opts, sentihttp.WithUserAgent(cfg.Crawl.UserAgent))
			}
			fetcher = sentihttp.NewFetcher(opts...)
		}
		m.closers = append(m.closers, fetcher)
	}

	var extractor sentiscope.Extractor
	switch cfg.Crawl.Extractor {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	case "readability":
		extractor = readability.NewExtractor(htmltomarkdown.NewConverter())
	default:
		extractor = goquery.NewExtractor()
	}

	if verbose {
		fetcher = sslog.NewLoggingFetcher(fetcher, deps.Logger)
		extractor = sslog.NewLoggingExtractor(extractor, deps.Logger)
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   extractor,
		Links:       goquery.NewLinkExtractor(),
		Corpus:      deps.Corpus,
		Storage:     m.corpusStorage,
		RateLimiter: crawl.NewDomainLimiter(cfg.Crawl.RateLimit),
		Crawls:      deps.Crawls,
	}
	if cfg.Crawl.WriteDocs {
		deps.Crawler.Writer = fs.NewWriter(cfg.DocsDir())
	}
	return nil
}

func (m *Main) wireClassifier(deps *Dependencies, verbose bool) error {
	cfg := deps.Config

	classifier := m.Classifier
	if classifier == nil {
		client, err := m.geminiClient(deps)
		if err != nil {
			return err
		}
		c := gemini.NewClassifier(client, cfg.Gemini.Model)
		c.SetConcurrency(cfg.Gemini.Concurrency)
		if cfg.Gemini.MaxInputTokens > 0 {
			c.MaxInputTokens = cfg.Gemini.MaxInputTokens
		}
		if cfg.Gemini.TokenizerModel != "" {
			counter, err := gemini.NewTokenCounter(cfg.Gemini.TokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			c.Counter = counter
		}
		classifier = c
	}

	if verbose {
		classifier = sslog.NewLoggingClassifier(classifier, deps.Logger)
	}
	deps.Classifier = classifier
	return nil
}

func (m *Main) wireGenerator(deps *Dependencies) error {
	if m.Generator != nil {
		deps.Generator = m.Generator
		return nil
	}
	client, err := m.geminiClient(deps)
	if err != nil {
		return err
	}
	deps.Generator = gemini.NewGenerator(client, deps.Config.Gemini.Model)
	return nil
}

func (m *Main) geminiClient(deps *Dependencies) (*genai.Client, error) {
	if deps.Config.Gemini.APIKey == "" {
		fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set (use --no-index to crawl without indexing)")
	}
	client, err := gemini.NewClient(deps.Ctx, deps.Config.Gemini.APIKey)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// connectRedis sets deps.Redis when a cache address is configured. An
// unreachable server only disables caching.
func (m *Main) connectRedis(deps *Dependencies) {
	cfg := deps.Config
	if cfg.Redis.Addr == "" {
		return
	}
	rdb, err := redis.NewClient(deps.Ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		deps.Logger.Warn("search cache disabled", "addr", cfg.Redis.Addr, "err", err)
		return
	}
	m.closers = append(m.closers, rdb)
	deps.Redis = rdb
}

func (m *Main) wireSearcher(deps *Dependencies, verbose bool) error {
	cfg := deps.Config

	taxonomy := m.Taxonomy
	if taxonomy == nil && cfg.WordNetDir != "" {
		t, err := wordnet.Open(cfg.WordNetDir)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: SENTISCOPE_WORDNET must point at a WordNet 3.0 dict directory")
			return err
		}
		taxonomy = t
	}

	var searcher sentiscope.Searcher = &query.Engine{Index: deps.Index, Taxonomy: taxonomy}
	searcher = prometheus.NewSearcher(searcher, deps.Metrics)

	m.connectRedis(deps)
	if deps.Redis != nil {
		cache := redis.NewSearchCache(searcher, deps.Redis, deps.Index.NextID)
		cache.TTL = cfg.Redis.TTL
		cache.Logger = deps.Logger
		deps.Cache = cache
		searcher = cache
	}

	if verbose {
		searcher = sslog.NewLoggingSearcher(searcher, deps.Logger)
	}
	deps.Searcher = searcher
	return nil
}
