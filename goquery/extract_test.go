package goquery_test

import (
	"testing"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns title and visible text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
	<title>  Cloud Pricing  </title>
	<style>body { color: red; }</style>
</head>
<body>
	<h1>Cloud   pricing</h1>
	<script>var tracking = true;</script>
	<p>Storage is <b>cheap</b>.</p>
	<noscript>Enable JavaScript</noscript>
</body>
</html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Cloud Pricing", result.Title)
		assert.Equal(t, "Cloud pricing\nStorage is\ncheap\n.", result.Text)
	})

	t.Run("returns empty title when the page has none", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<html><body><p>text</p></body></html>`)

		require.NoError(t, err)
		assert.Empty(t, result.Title)
		assert.Equal(t, "text", result.Text)
	})

	t.Run("uses the first title", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<html><head><title>One</title><title>Two</title></head></html>`)

		require.NoError(t, err)
		assert.Equal(t, "One", result.Title)
	})

	t.Run("drops blank lines after normalization", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<html><head><title>T</title></head><body><p>Hello</p>

<p>World</p></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "hello\nworld", sentiscope.NormalizeText(result.Text))
	})
}
