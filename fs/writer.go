// Package fs stores a plain-text copy of every crawled page on disk.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/sentiscope"
)

const (
	// maxNameLen is the longest file name stem accepted as is.
	maxNameLen = 255
	// truncatedNameLen is the stem length used for names above maxNameLen.
	truncatedNameLen = 250
)

var (
	schemeRe  = regexp.MustCompile(`https?://`)
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// FileName converts a page URL to a flat file name.
// Example: https://example.com/docs/a?b=1 → example_com_docs_a_b_1.txt
func FileName(rawURL string) string {
	name := schemeRe.ReplaceAllString(rawURL, "")
	name = nonWordRe.ReplaceAllString(name, "_")
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:truncatedNameLen])
	}
	return name + ".txt"
}

// Ensure Writer implements sentiscope.DocumentWriter at compile time.
var _ sentiscope.DocumentWriter = (*Writer)(nil)

// Writer writes the normalized content of each document to its own file.
// Files are written to a temporary name first and renamed into place, so a
// failed write never leaves a truncated file behind.
type Writer struct {
	dir string
}

// NewWriter creates a new Writer that writes to dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the directory documents are written to.
func (w *Writer) Dir() string { return w.dir }

// Path returns the file a document with the given URL is written to.
func (w *Writer) Path(rawURL string) string {
	return filepath.Join(w.dir, FileName(rawURL))
}

// WriteDocument writes doc.Content to the document's file.
func (w *Writer) WriteDocument(ctx context.Context, doc *sentiscope.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.dir, ".doc-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(doc.Content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), w.Path(doc.URL))
}

// RemoveAll deletes every document file. A missing directory is not an error.
func (w *Writer) RemoveAll() error {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
