package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/query"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	q := strings.Join(c.Query, " ")

	match, err := query.Lookup(deps.Ctx, deps.Searcher, q)
	if sentiscope.ErrorCode(err) == sentiscope.ENOTIMPLEMENTED {
		// No taxonomy configured; the lexical search found nothing.
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", q)
		fmt.Fprintln(deps.Stderr, "Hint: Set SENTISCOPE_WORDNET to search by meaning when no word matches")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiscope.ErrorMessage(err))
		return err
	}

	hits := query.Rank(match.Results, query.RankOptions{
		MinSentiment: &c.MinSentiment,
		Limit:        limitOrDefault(c.Limit, deps),
	})
	if len(hits) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", q)
		return nil
	}

	if match.Fallback() {
		fmt.Fprintf(deps.Stdout, "No exact match. Showing results for %q:\n\n", match.Token)
	}
	printHits(deps.Stdout, deps.Corpus, hits)
	logCacheStats(deps)
	return nil
}

// Run executes the similar command.
func (c *SimilarCmd) Run(deps *Dependencies) error {
	token, results, err := deps.Searcher.SemanticFallback(deps.Ctx, c.Word)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiscope.ErrorMessage(err))
		return err
	}
	if token == "" {
		fmt.Fprintf(deps.Stdout, "No indexed word is comparable to %q.\n", c.Word)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Closest indexed word: %s\n\n", token)
	printHits(deps.Stdout, deps.Corpus, query.Rank(results, query.RankOptions{Limit: limitOrDefault(c.Limit, deps)}))
	logCacheStats(deps)
	return nil
}

func logCacheStats(deps *Dependencies) {
	if deps.Cache == nil {
		return
	}
	hits, misses := deps.Cache.Stats()
	deps.Logger.Debug("search cache", "hits", hits, "misses", misses)
}

func limitOrDefault(limit int, deps *Dependencies) int {
	if limit > 0 {
		return limit
	}
	return deps.Config.Search.Limit
}

func printHits(w io.Writer, corpus *sentiscope.Corpus, hits []query.RankedHit) {
	for i, hit := range hits {
		title, url := "(unknown document)", ""
		if doc, err := corpus.Document(hit.ID); err == nil {
			title, url = doc.Title, doc.URL
		}
		fmt.Fprintf(w, "  %d. %s\n     %s\n     id=%d score=%.4f sentiment=%+.2f\n",
			i+1, title, url, hit.ID, hit.Score, hit.Sentiment)
	}
}
