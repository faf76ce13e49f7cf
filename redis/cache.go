package redis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sentiscope"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Ensure SearchCache implements sentiscope.Searcher at compile time.
var _ sentiscope.Searcher = (*SearchCache)(nil)

// SearchCache serves repeated queries from Redis. Keys carry the index
// generation, so entries written before the index grew are never read again
// and simply expire.
//
// Redis failures are logged and the query goes to the wrapped searcher.
type SearchCache struct {
	next       sentiscope.Searcher
	rdb        goredis.Cmdable
	generation func() int

	// Prefix is prepended to every key. TTL is the lifetime of an entry.
	Prefix string
	TTL    time.Duration
	Logger *slog.Logger

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewSearchCache wraps next. generation returns a value that changes
// whenever the index changes, typically the index's next document ID.
func NewSearchCache(next sentiscope.Searcher, rdb goredis.Cmdable, generation func() int) *SearchCache {
	return &SearchCache{
		next:       next,
		rdb:        rdb,
		generation: generation,
		Prefix:     DefaultPrefix,
		TTL:        DefaultTTL,
		Logger:     slog.Default(),
	}
}

// entry is the cached form of either operation.
type entry struct {
	Token   string             `json:"token,omitempty"`
	Results sentiscope.Results `json:"results"`
}

func (c *SearchCache) Search(ctx context.Context, query string) (sentiscope.Results, error) {
	e, err := c.getOrCompute(ctx, "search", query, func() (*entry, error) {
		results, err := c.next.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return &entry{Results: results}, nil
	})
	if err != nil {
		return nil, err
	}
	if e.Results == nil {
		return sentiscope.Results{}, nil
	}
	return e.Results, nil
}

func (c *SearchCache) SemanticFallback(ctx context.Context, word string) (string, sentiscope.Results, error) {
	e, err := c.getOrCompute(ctx, "fallback", word, func() (*entry, error) {
		token, results, err := c.next.SemanticFallback(ctx, word)
		if err != nil {
			return nil, err
		}
		return &entry{Token: token, Results: results}, nil
	})
	if err != nil {
		return "", nil, err
	}
	if e.Token == "" {
		return "", nil, nil
	}
	return e.Token, e.Results, nil
}

// Stats returns the hit and miss counts since the cache was created.
func (c *SearchCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Invalidate deletes every key under Prefix and returns how many were removed.
func (c *SearchCache) Invalidate(ctx context.Context) (int64, error) {
	return Invalidate(ctx, c.rdb, c.Prefix)
}

// Invalidate deletes every key under prefix and returns how many were
// removed. The cleanup command uses it without building a cache.
func Invalidate(ctx context.Context, rdb goredis.Cmdable, prefix string) (int64, error) {
	var deleted int64
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("delete key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return deleted, nil
}

func (c *SearchCache) getOrCompute(ctx context.Context, op, query string, compute func() (*entry, error)) (*entry, error) {
	key := Key(c.Prefix, op, c.generation(), query)
	if e, ok := c.get(ctx, key); ok {
		return e, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if e, ok := c.get(ctx, key); ok {
			return e, nil
		}
		e, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

func (c *SearchCache) get(ctx context.Context, key string) (*entry, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.Logger.Error("cache get failed", "key", key, "err", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.Logger.Error("cache unmarshal failed", "key", key, "err", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.Logger.Debug("cache hit", "key", key)
	return &e, true
}

func (c *SearchCache) set(ctx context.Context, key string, e *entry) {
	data, err := json.Marshal(e)
	if err != nil {
		c.Logger.Error("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.TTL).Err(); err != nil {
		c.Logger.Error("cache set failed", "key", key, "err", err)
	}
}

// Key builds the cache key for a query. Search queries with the same tokens
// in the same order share a key; token order and repetition change the key
// because both change the scores. A fallback word is keyed as the engine
// reads it, trimmed and lowercased, since words that tokenize alike can
// still have different senses.
func Key(prefix, op string, generation int, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if op != "fallback" {
		normalized = strings.Join(sentiscope.Tokenize(query), " ")
	}
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%s%s:g%d:%x", prefix, op, generation, hash[:16])
}
