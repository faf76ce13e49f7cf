// Package bolt stores the inverted index in a single BoltDB file.
package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/fwojciec/sentiscope"
)

var _ sentiscope.IndexStorage = (*IndexStorage)(nil)

var (
	tokensBucket = []byte("tokens")
	metaBucket   = []byte("meta")
	nextIDKey    = []byte("next_id")
)

// tokenRecord is the gob-encoded value of one token. Keys are the token's
// position in the vocabulary, so a cursor walks tokens in insertion order.
type tokenRecord struct {
	Token    string
	Postings []postingRecord
}

type postingRecord struct {
	ID        int
	Weight    float64
	Sentiment float64
}

// IndexStorage implements sentiscope.IndexStorage on a BoltDB file.
type IndexStorage struct {
	db   *bolt.DB
	path string
}

// NewIndexStorage returns storage backed by the file at path.
func NewIndexStorage(path string) *IndexStorage {
	return &IndexStorage{path: path}
}

// Open opens or creates the database file.
func (s *IndexStorage) Open() error {
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to open bolt database: %w", err)
	}
	s.db = db
	return nil
}

// Close closes the database file.
func (s *IndexStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadIndex reads the stored index. A fresh file yields an empty index.
func (s *IndexStorage) LoadIndex(ctx context.Context) (*sentiscope.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := sentiscope.NewIndex()
	err := s.db.View(func(tx *bolt.Tx) error {
		if meta := tx.Bucket(metaBucket); meta != nil {
			if v := meta.Get(nextIDKey); len(v) == 8 {
				idx.SetNextID(int(binary.BigEndian.Uint64(v)))
			}
		}

		tokens := tx.Bucket(tokensBucket)
		if tokens == nil {
			return nil
		}
		return tokens.ForEach(func(_, v []byte) error {
			var rec tokenRecord
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&rec); err != nil {
				return fmt.Errorf("decode token record: %w", err)
			}
			for _, p := range rec.Postings {
				idx.Put(rec.Token, p.ID, sentiscope.Posting{Weight: p.Weight, Sentiment: p.Sentiment})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// SaveIndex rewrites the tokens bucket and the ID counter in one transaction.
func (s *IndexStorage) SaveIndex(ctx context.Context, idx *sentiscope.Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var records []tokenRecord
	err := idx.Each(func(token string, id int, p sentiscope.Posting) error {
		if n := len(records); n == 0 || records[n-1].Token != token {
			records = append(records, tokenRecord{Token: token})
		}
		last := &records[len(records)-1]
		last.Postings = append(last.Postings, postingRecord{ID: id, Weight: p.Weight, Sentiment: p.Sentiment})
		return nil
	})
	if err != nil {
		return err
	}
	nextID := idx.NextID()

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(tokensBucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		tokens, err := tx.CreateBucket(tokensBucket)
		if err != nil {
			return err
		}

		for seq, rec := range records {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
				return fmt.Errorf("encode token %q: %w", rec.Token, err)
			}
			if err := tokens.Put(seqKey(seq), buf.Bytes()); err != nil {
				return err
			}
		}

		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, uint64(nextID))
		return meta.Put(nextIDKey, v)
	})
}

func seqKey(seq int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(seq))
	return k
}
