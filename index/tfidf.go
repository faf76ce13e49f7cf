// Package index computes TF-IDF weights and maintains the sentiment
// annotated inverted index over the corpus.
package index

import (
	"math"

	"github.com/fwojciec/sentiscope"
)

// Model holds the vocabulary and inverse document frequencies of a corpus
// snapshot. Weights computed by a model are only comparable with weights
// from the same model.
type Model struct {
	n   int
	idf map[string]float64
}

// Fit computes document frequencies over docs using sentiscope.Tokenize.
//
// The weighting matches the common TF-IDF vectorizer defaults: raw term
// counts, smoothed idf ln((1+n)/(1+df))+1 and L2-normalized document vectors.
func Fit(docs []string) *Model {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range sentiscope.Tokenize(doc) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	n := len(docs)
	idf := make(map[string]float64, len(df))
	for tok, d := range df {
		idf[tok] = math.Log(float64(1+n)/float64(1+d)) + 1
	}
	return &Model{n: n, idf: idf}
}

// Size returns the number of documents the model was fit on.
func (m *Model) Size() int { return m.n }

// VocabularySize returns the number of distinct tokens in the model.
func (m *Model) VocabularySize() int { return len(m.idf) }

// IDF returns the inverse document frequency of token.
func (m *Model) IDF(token string) (float64, bool) {
	v, ok := m.idf[token]
	return v, ok
}

// Weight is the TF-IDF weight of one token in one document.
type Weight struct {
	Token  string
	Weight float64
}

// Weights returns the normalized TF-IDF weight of every distinct token of
// text that is in the vocabulary, in order of first occurrence.
func (m *Model) Weights(text string) []Weight {
	counts := make(map[string]int)
	var order []string
	for _, tok := range sentiscope.Tokenize(text) {
		if _, ok := m.idf[tok]; !ok {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	weights := make([]Weight, len(order))
	var norm float64
	for i, tok := range order {
		w := float64(counts[tok]) * m.idf[tok]
		weights[i] = Weight{Token: tok, Weight: w}
		norm += w * w
	}
	if norm == 0 {
		return weights
	}
	norm = math.Sqrt(norm)
	for i := range weights {
		weights[i].Weight /= norm
	}
	return weights
}
