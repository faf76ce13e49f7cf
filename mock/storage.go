package mock

import (
	"context"

	"github.com/fwojciec/sentiscope"
)

var (
	_ sentiscope.CorpusStorage = (*CorpusStorage)(nil)
	_ sentiscope.IndexStorage  = (*IndexStorage)(nil)
	_ sentiscope.CrawlService  = (*CrawlService)(nil)
)

// CorpusStorage is a mock implementation of sentiscope.CorpusStorage.
type CorpusStorage struct {
	LoadCorpusFn func(ctx context.Context) (*sentiscope.Corpus, error)
	SaveCorpusFn func(ctx context.Context, c *sentiscope.Corpus) error
}

func (s *CorpusStorage) LoadCorpus(ctx context.Context) (*sentiscope.Corpus, error) {
	return s.LoadCorpusFn(ctx)
}

func (s *CorpusStorage) SaveCorpus(ctx context.Context, c *sentiscope.Corpus) error {
	return s.SaveCorpusFn(ctx, c)
}

// IndexStorage is a mock implementation of sentiscope.IndexStorage.
type IndexStorage struct {
	LoadIndexFn func(ctx context.Context) (*sentiscope.Index, error)
	SaveIndexFn func(ctx context.Context, idx *sentiscope.Index) error
}

func (s *IndexStorage) LoadIndex(ctx context.Context) (*sentiscope.Index, error) {
	return s.LoadIndexFn(ctx)
}

func (s *IndexStorage) SaveIndex(ctx context.Context, idx *sentiscope.Index) error {
	return s.SaveIndexFn(ctx, idx)
}

// CrawlService is a mock implementation of sentiscope.CrawlService.
type CrawlService struct {
	CreateCrawlFn func(ctx context.Context, s *sentiscope.CrawlSession) error
	FindCrawlsFn  func(ctx context.Context, filter sentiscope.CrawlFilter) ([]*sentiscope.CrawlSession, error)
}

func (s *CrawlService) CreateCrawl(ctx context.Context, session *sentiscope.CrawlSession) error {
	return s.CreateCrawlFn(ctx, session)
}

func (s *CrawlService) FindCrawls(ctx context.Context, filter sentiscope.CrawlFilter) ([]*sentiscope.CrawlSession, error) {
	return s.FindCrawlsFn(ctx, filter)
}
