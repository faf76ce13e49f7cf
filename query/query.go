// Package query answers searches against the inverted index.
package query

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/sentiscope"
)

var _ sentiscope.Searcher = (*Engine)(nil)

// Engine searches the inverted index. Taxonomy is only needed by
// SemanticFallback.
type Engine struct {
	Index    *sentiscope.Index
	Taxonomy sentiscope.Taxonomy
}

// Search ORs the query tokens together. A document's score is the sum of
// the weights of every matching query token, counted once per occurrence in
// the query. Its sentiment is the value of the last token that matched it.
func (e *Engine) Search(ctx context.Context, query string) (sentiscope.Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(sentiscope.Results)
	for _, tok := range sentiscope.Tokenize(query) {
		e.Index.Lookup(tok, func(id int, p sentiscope.Posting) {
			hit := results[id]
			hit.Score += p.Weight
			hit.Sentiment = p.Sentiment
			results[id] = hit
		})
	}
	return results, nil
}

// SemanticFallback compares the primary sense of word with the primary sense
// of every indexed token and returns the most similar token together with
// its bucket. Ties go to the token indexed first.
//
// The cost grows with the vocabulary; call it only when Search is empty.
func (e *Engine) SemanticFallback(ctx context.Context, word string) (string, sentiscope.Results, error) {
	if e.Taxonomy == nil {
		return "", nil, sentiscope.Errorf(sentiscope.ENOTIMPLEMENTED, "no taxonomy configured")
	}

	sense, ok := e.Taxonomy.Sense(strings.ToLower(strings.TrimSpace(word)))
	if !ok {
		return "", nil, nil
	}

	var best string
	var bestScore float64
	for i, tok := range e.Index.Tokens() {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return "", nil, err
			}
		}
		other, ok := e.Taxonomy.Sense(tok)
		if !ok {
			continue
		}
		score, ok := e.Taxonomy.Similarity(sense, other)
		if ok && score > bestScore {
			best, bestScore = tok, score
		}
	}
	if best == "" {
		return "", nil, nil
	}

	bucket := make(sentiscope.Results)
	e.Index.Lookup(best, func(id int, p sentiscope.Posting) {
		bucket[id] = sentiscope.Hit{Score: p.Weight, Sentiment: p.Sentiment}
	})
	return best, bucket, nil
}

// Match is the answer to a lookup.
type Match struct {
	Results sentiscope.Results

	// Token is the indexed token the fallback settled on. It is empty for
	// lexical matches.
	Token string
}

// Fallback reports whether the match came from the semantic fallback.
func (m *Match) Fallback() bool { return m.Token != "" }

// Lookup runs a lexical search and, if that finds nothing, the semantic
// fallback on the first query token. Results is empty when neither matches.
func Lookup(ctx context.Context, s sentiscope.Searcher, query string) (*Match, error) {
	results, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return &Match{Results: results}, nil
	}

	tokens := sentiscope.Tokenize(query)
	if len(tokens) == 0 {
		return &Match{Results: results}, nil
	}

	token, bucket, err := s.SemanticFallback(ctx, tokens[0])
	if err != nil {
		return nil, err
	}
	if bucket == nil {
		return &Match{Results: results}, nil
	}
	return &Match{Results: bucket, Token: token}, nil
}

// RankedHit is a hit together with its document ID.
type RankedHit struct {
	ID int
	sentiscope.Hit
}

// RankOptions controls Rank.
type RankOptions struct {
	// MinSentiment drops hits whose sentiment is below it. Nil keeps all.
	MinSentiment *float64

	// Limit caps the number of hits. Zero means no limit.
	Limit int
}

// Rank orders results by descending score, breaking ties by ascending ID,
// then applies the sentiment threshold and the limit.
func Rank(results sentiscope.Results, opts RankOptions) []RankedHit {
	hits := make([]RankedHit, 0, len(results))
	for id, hit := range results {
		if opts.MinSentiment != nil && hit.Sentiment < *opts.MinSentiment {
			continue
		}
		hits = append(hits, RankedHit{ID: id, Hit: hit})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits
}
