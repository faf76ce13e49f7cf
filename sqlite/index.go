package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/sentiscope"
)

// Compile-time interface verification.
var _ sentiscope.IndexStorage = (*IndexStorage)(nil)

const metaNextID = "next_id"

// IndexStorage implements sentiscope.IndexStorage using SQLite.
// token_seq preserves the vocabulary order across a save and load.
type IndexStorage struct {
	db *DB
}

// NewIndexStorage creates a new IndexStorage.
func NewIndexStorage(db *DB) *IndexStorage {
	return &IndexStorage{db: db}
}

// LoadIndex reads the whole index. An empty database yields an empty index.
func (s *IndexStorage) LoadIndex(ctx context.Context) (*sentiscope.Index, error) {
	idx := sentiscope.NewIndex()

	var nextID int
	err := s.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaNextID).Scan(&nextID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT token, doc_id, weight, sentiment
		FROM postings
		ORDER BY token_seq, doc_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var token string
		var id int
		var p sentiscope.Posting
		if err := rows.Scan(&token, &id, &p.Weight, &p.Sentiment); err != nil {
			return nil, err
		}
		idx.Put(token, id, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	idx.SetNextID(nextID)
	return idx, nil
}

// SaveIndex replaces the stored index in a single transaction.
func (s *IndexStorage) SaveIndex(ctx context.Context, idx *sentiscope.Index) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO postings (token_seq, token, doc_id, weight, sentiment)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seq := -1
	var last string
	err = idx.Each(func(token string, id int, p sentiscope.Posting) error {
		if seq < 0 || token != last {
			seq++
			last = token
		}
		if _, err := stmt.ExecContext(ctx, seq, token, id, p.Weight, p.Sentiment); err != nil {
			return fmt.Errorf("insert posting %q/%d: %w", token, id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaNextID, idx.NextID()); err != nil {
		return err
	}

	return tx.Commit()
}
