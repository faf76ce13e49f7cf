package sentiscope

import "context"

// URLFrontier manages the crawl queue together with the visited set.
type URLFrontier interface {
	// Push canonicalizes url, marks it visited and queues it.
	// Returns false if the canonical URL was already visited.
	Push(url string) bool

	// Visit marks url visited without queueing it.
	Visit(url string)

	// Pop returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of queued URLs.
	Len() int

	// Seen returns true if the canonical URL has been visited or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-host rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the URL's host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, url string) error
}
