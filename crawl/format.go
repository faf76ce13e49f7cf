package crawl

import "strings"

// TruncateURL shortens a URL for progress output. The scheme is dropped and,
// if the rest is still longer than limit, its tail is kept behind "...".
func TruncateURL(rawURL string, limit int) string {
	short := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	switch {
	case limit <= 0:
		return ""
	case len(short) <= limit:
		return short
	case limit < 4:
		return short[:limit]
	}
	return "..." + short[len(short)-limit+3:]
}
