package sentiscope

import (
	"context"
	"strings"
	"sync"
	"unicode"
)

// Posting is the index entry for one token in one document.
type Posting struct {
	Weight    float64 `json:"weight"`
	Sentiment float64 `json:"sentiment"`
}

// Index is an inverted index from token to the documents containing it.
// Tokens keep the order in which they were first added and each token's
// postings keep the order of their document IDs. Index also carries the
// ID of the next document to be indexed.
//
// Index is safe for concurrent use. Apply adds a whole document at once, so
// readers never observe a partially indexed document.
type Index struct {
	mu       sync.RWMutex
	nextID   int
	tokens   []string
	postings map[string]*postingList
}

// TokenPosting pairs a token with its posting for a single document.
type TokenPosting struct {
	Token string
	Posting
}

type postingList struct {
	ids     []int
	entries map[int]Posting
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{postings: make(map[string]*postingList)}
}

// NextID returns the ID of the next document to be indexed.
func (idx *Index) NextID() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.nextID
}

// SetNextID sets the ID counter. Storage implementations use it on load.
func (idx *Index) SetNextID(id int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.nextID = id
}

// Apply records the postings of document id and advances the ID counter
// past it. An entry that already exists for a (token, id) pair is left
// untouched.
func (idx *Index) Apply(id int, entries []TokenPosting) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, e := range entries {
		idx.add(e.Token, id, e.Posting)
	}
	if id >= idx.nextID {
		idx.nextID = id + 1
	}
}

// Put records a single posting without moving the ID counter.
// It reports false if the (token, id) pair was already present.
func (idx *Index) Put(token string, id int, p Posting) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.add(token, id, p)
}

func (idx *Index) add(token string, id int, p Posting) bool {
	list, ok := idx.postings[token]
	if !ok {
		list = &postingList{entries: make(map[int]Posting)}
		idx.postings[token] = list
		idx.tokens = append(idx.tokens, token)
	}
	if _, exists := list.entries[id]; exists {
		return false
	}
	list.ids = append(list.ids, id)
	list.entries[id] = p
	return true
}

// Lookup calls fn for every posting of token in document order.
// It reports false if the token is not in the index.
func (idx *Index) Lookup(token string, fn func(id int, p Posting)) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	list, ok := idx.postings[token]
	if !ok {
		return false
	}
	for _, id := range list.ids {
		fn(id, list.entries[id])
	}
	return true
}

// Posting returns the entry for token in document id.
func (idx *Index) Posting(token string, id int) (Posting, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	list, ok := idx.postings[token]
	if !ok {
		return Posting{}, false
	}
	p, ok := list.entries[id]
	return p, ok
}

// Tokens returns the vocabulary in first-insertion order.
func (idx *Index) Tokens() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]string(nil), idx.tokens...)
}

// Len returns the number of distinct tokens.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.tokens)
}

// Each calls fn for every posting, tokens in insertion order and postings in
// document order.
func (idx *Index) Each(fn func(token string, id int, p Posting) error) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, token := range idx.tokens {
		list := idx.postings[token]
		for _, id := range list.ids {
			if err := fn(token, id, list.entries[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// IndexStorage loads and saves the whole index. SaveIndex must be atomic:
// after a failed save the previous snapshot is still loadable.
type IndexStorage interface {
	LoadIndex(ctx context.Context) (*Index, error)
	SaveIndex(ctx context.Context, idx *Index) error
}

// Tokenize splits text into lowercase runs of letters and digits that are at
// least two characters long.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
