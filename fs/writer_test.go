package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "strips https scheme",
			url:  "https://example.com/docs/api",
			want: "example_com_docs_api.txt",
		},
		{
			name: "strips http scheme",
			url:  "http://example.com",
			want: "example_com.txt",
		},
		{
			name: "collapses runs of non-word characters",
			url:  "https://example.com/a?b=1&c=2",
			want: "example_com_a_b_1_c_2.txt",
		},
		{
			name: "keeps underscores",
			url:  "https://example.com/snake_case",
			want: "example_com_snake_case.txt",
		},
		{
			name: "keeps non-ascii letters",
			url:  "https://example.com/notícias",
			want: "example_com_notícias.txt",
		},
		{
			name: "trailing slash becomes underscore",
			url:  "https://example.com/docs/",
			want: "example_com_docs_.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.FileName(tt.url))
		})
	}
}

func TestFileName_TruncatesLongNames(t *testing.T) {
	t.Parallel()

	long := "https://example.com/" + strings.Repeat("a", 300)
	got := fs.FileName(long)

	assert.Equal(t, 250+len(".txt"), len(got))
	assert.True(t, strings.HasPrefix(got, "example_com_aaa"))
}

func TestFileName_KeepsNamesUpTo255(t *testing.T) {
	t.Parallel()

	// "example_com_" is 12 characters.
	url := "https://example.com/" + strings.Repeat("a", 243)
	got := fs.FileName(url)

	assert.Equal(t, 255+len(".txt"), len(got))
}

func TestWriter_WriteDocument(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "docs")
	w := fs.NewWriter(dir)

	doc := &sentiscope.Document{
		ID:      0,
		URL:     "https://example.com/page",
		Title:   "Page",
		Content: "first line\nsecond line",
	}
	require.NoError(t, w.WriteDocument(context.Background(), doc))

	data, err := os.ReadFile(filepath.Join(dir, "example_com_page.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", string(data))
}

func TestWriter_WriteDocument_Overwrites(t *testing.T) {
	t.Parallel()

	w := fs.NewWriter(t.TempDir())
	ctx := context.Background()

	require.NoError(t, w.WriteDocument(ctx, &sentiscope.Document{URL: "https://example.com", Content: "old"}))
	require.NoError(t, w.WriteDocument(ctx, &sentiscope.Document{URL: "https://example.com", Content: "new"}))

	data, err := os.ReadFile(w.Path("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriter_WriteDocument_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir)

	require.NoError(t, w.WriteDocument(context.Background(), &sentiscope.Document{URL: "https://example.com", Content: "x"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "example_com.txt", entries[0].Name())
}

func TestWriter_WriteDocument_InvalidDocument(t *testing.T) {
	t.Parallel()

	w := fs.NewWriter(t.TempDir())

	err := w.WriteDocument(context.Background(), &sentiscope.Document{ID: 1})

	assert.Equal(t, sentiscope.EINVALID, sentiscope.ErrorCode(err))
}

func TestWriter_WriteDocument_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteDocument(ctx, &sentiscope.Document{URL: "https://example.com", Content: "x"})

	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, w.Path("https://example.com"))
}

func TestWriter_WriteDocument_UnwritableDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := fs.NewWriter(filepath.Join(blocker, "docs"))

	err := w.WriteDocument(context.Background(), &sentiscope.Document{URL: "https://example.com", Content: "x"})

	assert.Error(t, err)
}

func TestWriter_RemoveAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir)
	ctx := context.Background()

	require.NoError(t, w.WriteDocument(ctx, &sentiscope.Document{URL: "https://a.com", Content: "a"}))
	require.NoError(t, w.WriteDocument(ctx, &sentiscope.Document{URL: "https://b.com", Content: "b"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.json"), []byte("{}"), 0o644))

	require.NoError(t, w.RemoveAll())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.json", entries[0].Name())
}

func TestWriter_RemoveAll_MissingDirectory(t *testing.T) {
	t.Parallel()

	w := fs.NewWriter(filepath.Join(t.TempDir(), "missing"))

	assert.NoError(t, w.RemoveAll())
}
