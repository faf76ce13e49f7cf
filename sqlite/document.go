package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sentiscope"
)

// Compile-time interface verification.
var _ sentiscope.CorpusStorage = (*CorpusStorage)(nil)

// CorpusStorage implements sentiscope.CorpusStorage using SQLite.
// Each document is a row keyed by its corpus position.
type CorpusStorage struct {
	db *DB
}

// NewCorpusStorage creates a new CorpusStorage.
func NewCorpusStorage(db *DB) *CorpusStorage {
	return &CorpusStorage{db: db}
}

// hashContent returns the xxhash of content as 16 hex digits. It is stored
// next to each document and checked again on load.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// LoadCorpus reads every stored document in ID order.
// Returns EINTERNAL if the stored IDs are not contiguous from zero or a
// document no longer matches its stored content hash.
func (s *CorpusStorage) LoadCorpus(ctx context.Context) (*sentiscope.Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, title, content, content_hash
		FROM documents
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls, titles, contents []string
	for rows.Next() {
		var id int
		var url, title, content, hash string
		if err := rows.Scan(&id, &url, &title, &content, &hash); err != nil {
			return nil, err
		}
		if id != len(urls) {
			return nil, sentiscope.Errorf(sentiscope.EINTERNAL, "corpus storage is missing document %d", len(urls))
		}
		if hash != hashContent(content) {
			return nil, sentiscope.Errorf(sentiscope.EINTERNAL, "document %d does not match its content hash", id)
		}
		urls = append(urls, url)
		titles = append(titles, title)
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c := sentiscope.NewCorpus()
	if err := c.Restore(urls, titles, contents); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveCorpus inserts the documents that storage does not hold yet, in one
// transaction. Stored documents are immutable, so existing rows are kept.
// Returns ECONFLICT if storage holds more documents than the corpus.
func (s *CorpusStorage) SaveCorpus(ctx context.Context, c *sentiscope.Corpus) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stored int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&stored); err != nil {
		return err
	}

	docs := c.Documents()
	if stored > len(docs) {
		return sentiscope.Errorf(sentiscope.ECONFLICT, "storage holds %d documents, corpus only %d", stored, len(docs))
	}
	if stored == len(docs) {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, url, title, content, content_hash, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, doc := range docs[stored:] {
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.URL, doc.Title, doc.Content, hashContent(doc.Content), now); err != nil {
			return fmt.Errorf("insert document %d: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}
