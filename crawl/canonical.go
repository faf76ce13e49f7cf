package crawl

import (
	"net/url"
	"path"
	"strings"
)

// blockedExtensions lists file types the crawler never queues.
var blockedExtensions = map[string]bool{
	".pptx": true, ".docx": true, ".pdf": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".mp4": true, ".mp3": true, ".wav": true,
}

// Canonicalize reduces URL variants to a single identity by stripping the
// fragment and then one trailing slash.
//
//	https://x.com/a/    -> https://x.com/a
//	https://x.com/a#sec -> https://x.com/a
func Canonicalize(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if idx := strings.Index(u, "#"); idx != -1 {
		u = u[:idx]
	}
	return strings.TrimSuffix(u, "/")
}

// IsHTTP reports whether rawURL uses the http or https scheme.
func IsHTTP(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// AcceptLink reports whether a discovered link may be queued: it must be an
// http(s) URL that does not point at a document, image or media file.
func AcceptLink(rawURL string) bool {
	if rawURL == "" || !IsHTTP(rawURL) {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return !blockedExtensions[ext]
}
