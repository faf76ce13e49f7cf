package index

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/fwojciec/sentiscope"
)

// Indexer adds corpus documents to the inverted index. The corpus append
// position is the only document ID: the next document to index is always
// the one at Index.NextID() in the corpus.
//
// Indexer refits its model whenever the corpus has grown since the last fit,
// so weights are never computed against a stale vocabulary.
type Indexer struct {
	Corpus  *sentiscope.Corpus
	Index   *sentiscope.Index
	Storage sentiscope.IndexStorage

	mu    sync.Mutex
	model *Model
}

// Reindex fits the TF-IDF model on the entire current corpus.
func (i *Indexer) Reindex(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.reindex(ctx)
}

func (i *Indexer) reindex(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.model = Fit(i.Corpus.Contents())
	return nil
}

// Model returns the current model, or nil if Reindex has not run.
func (i *Indexer) Model() *Model {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.model
}

// AddDocument indexes text as the next document and persists the whole index.
// text must be the corpus content stored at Index.NextID(); otherwise
// ECONFLICT is returned and nothing changes. sentiment must lie in [-1,1].
func (i *Indexer) AddDocument(ctx context.Context, text string, sentiment float64) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.addDocument(ctx, text, sentiment)
}

func (i *Indexer) addDocument(ctx context.Context, text string, sentiment float64) (int, error) {
	if math.IsNaN(sentiment) || sentiment < -1 || sentiment > 1 {
		return 0, sentiscope.Errorf(sentiscope.EINVALID, "sentiment must be within [-1,1], got %v", sentiment)
	}

	id := i.Index.NextID()
	doc, err := i.Corpus.Document(id)
	if sentiscope.ErrorCode(err) == sentiscope.ENOTFOUND {
		return 0, sentiscope.Errorf(sentiscope.ECONFLICT, "next index id %d is not in the corpus (%d documents)", id, i.Corpus.Len())
	} else if err != nil {
		return 0, err
	}
	if doc.Content != text {
		return 0, sentiscope.Errorf(sentiscope.ECONFLICT, "text does not match corpus document %d", id)
	}

	if i.model == nil || i.model.Size() != i.Corpus.Len() {
		if err := i.reindex(ctx); err != nil {
			return 0, err
		}
	}

	weights := i.model.Weights(text)
	entries := make([]sentiscope.TokenPosting, len(weights))
	for j, w := range weights {
		entries[j] = sentiscope.TokenPosting{
			Token:   w.Token,
			Posting: sentiscope.Posting{Weight: w.Weight, Sentiment: sentiment},
		}
	}
	i.Index.Apply(id, entries)

	if err := i.Storage.SaveIndex(ctx, i.Index); err != nil {
		return 0, fmt.Errorf("save index: %w", err)
	}
	return id, nil
}

// IndexPending classifies every corpus document that is not yet indexed in
// one batch and adds them in ID order. It returns the number of documents
// added.
func (i *Indexer) IndexPending(ctx context.Context, classifier sentiscope.SentimentClassifier) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	docs := i.Corpus.Documents()
	next := i.Index.NextID()
	if next > len(docs) {
		return 0, sentiscope.Errorf(sentiscope.ECONFLICT, "index is ahead of the corpus: next id %d, %d documents", next, len(docs))
	}
	pending := docs[next:]
	if len(pending) == 0 {
		return 0, nil
	}

	texts := make([]string, len(pending))
	for j, doc := range pending {
		texts[j] = doc.Content
	}
	scores, err := classifier.Classify(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("classify: %w", err)
	}
	if len(scores) != len(texts) {
		return 0, sentiscope.Errorf(sentiscope.EINTERNAL, "classifier returned %d scores for %d texts", len(scores), len(texts))
	}

	if err := i.reindex(ctx); err != nil {
		return 0, err
	}

	var n int
	for j, doc := range pending {
		if _, err := i.addDocument(ctx, doc.Content, scores[j]); err != nil {
			return n, fmt.Errorf("document %d: %w", doc.ID, err)
		}
		n++
	}
	return n, nil
}
