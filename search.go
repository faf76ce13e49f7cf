package sentiscope

import "context"

// Hit is a document's accumulated score for a query.
type Hit struct {
	Score     float64 `json:"score"`
	Sentiment float64 `json:"sentiment"`
}

// Results maps document ID to its hit.
type Results map[int]Hit

// Searcher answers queries against the inverted index.
type Searcher interface {
	// Search returns every document containing at least one query token.
	// An empty map means no lexical match; it is not an error.
	Search(ctx context.Context, query string) (Results, error)

	// SemanticFallback finds the indexed token closest in meaning to word
	// and returns it with its bucket. It returns ("", nil, nil) when word has
	// no recognized sense or no indexed token is comparable.
	//
	// It compares word against the whole vocabulary and is meant to be called
	// only when Search finds nothing.
	SemanticFallback(ctx context.Context, word string) (string, Results, error)
}

// Sense identifies one meaning of a word in a taxonomy.
type Sense struct {
	Word string
	ID   string
}

// Taxonomy compares word meanings through a sense hierarchy.
type Taxonomy interface {
	// Sense returns the primary sense of word, or false if the word is unknown.
	Sense(word string) (Sense, bool)

	// Similarity returns a score in [0,1] between two senses, or false if the
	// senses share no ancestor and cannot be compared.
	Similarity(a, b Sense) (float64, bool)
}

// SentimentClassifier scores texts on a scale from -1 (negative) to 1
// (positive). It returns one score per input text, in order.
type SentimentClassifier interface {
	Classify(ctx context.Context, texts []string) ([]float64, error)
}

// Generator produces new text seeded by a document's content.
type Generator interface {
	Generate(ctx context.Context, text string) (string, error)
}
