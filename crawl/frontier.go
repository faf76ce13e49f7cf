package crawl

import (
	"sync"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/bloom"
)

// Compile-time interface verification.
var _ sentiscope.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL queue with exact deduplication.
// URLs are popped in the order they were pushed, giving a breadth-first
// crawl. It is safe for concurrent use by multiple goroutines.
//
// The visited set is a map of canonical URLs. A Bloom filter in front of it
// answers the common "never seen" case without hashing into the map; a
// filter hit is always confirmed against the map, so a false positive never
// drops a URL.
type Frontier struct {
	mu     sync.Mutex
	filter *bloom.Filter
	seen   map[string]struct{}
	queue  []string
	head   int
}

// NewFrontier creates a new Frontier whose Bloom filter is sized for n
// expected URLs at the given false positive rate. Exceeding n only makes
// the filter less useful as a shortcut.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		filter: bloom.NewFilter(n, fpRate),
		seen:   make(map[string]struct{}, n),
	}
}

// mark records url as seen and reports whether it already was.
func (f *Frontier) mark(url string) bool {
	if f.filter.TestAndAdd(url) {
		if _, ok := f.seen[url]; ok {
			return true
		}
	}
	f.seen[url] = struct{}{}
	return false
}

func (f *Frontier) has(url string) bool {
	if !f.filter.Test(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}

// Push canonicalizes the URL and queues it at the tail.
// Returns false if the canonical URL has already been seen.
func (f *Frontier) Push(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := Canonicalize(rawURL)
	if f.mark(url) {
		return false
	}
	f.queue = append(f.queue, url)
	return true
}

// Visit marks the URL as seen without queueing it.
func (f *Frontier) Visit(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mark(Canonicalize(rawURL))
}

// Pop returns the URL at the head of the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return "", false
	}
	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head > 64 && f.head*2 > len(f.queue) {
		f.queue = append([]string(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen returns true if the canonical URL has been visited or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.has(Canonicalize(rawURL))
}
