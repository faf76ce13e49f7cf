package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/sentiscope"
	"github.com/fwojciec/sentiscope/fs"
	"github.com/fwojciec/sentiscope/redis"
)

// Run executes the cleanup command.
func (c *CleanupCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: this deletes every document and the index in %s. Re-run with --force to confirm.\n", cfg.DataDir)
		return sentiscope.Errorf(sentiscope.EINVALID, "cleanup requires --force")
	}

	docs := fs.NewWriter(cfg.DocsDir())
	if err := docs.RemoveAll(); err != nil {
		return fmt.Errorf("remove document files: %w", err)
	}
	if err := os.Remove(docs.Dir()); err != nil && !errors.Is(err, os.ErrNotExist) {
		deps.Logger.Warn("keeping non-empty docs directory", "dir", docs.Dir(), "err", err)
	}

	for _, path := range []string{
		cfg.DBPath(),
		cfg.DBPath() + "-wal",
		cfg.DBPath() + "-shm",
		cfg.BoltPath(),
	} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Removed corpus, index and document files from %s\n", cfg.DataDir)

	if deps.Redis != nil {
		n, err := redis.Invalidate(deps.Ctx, deps.Redis, redis.DefaultPrefix)
		if err != nil {
			deps.Logger.Warn("search cache not cleared", "err", err)
			return nil
		}
		fmt.Fprintf(deps.Stdout, "Cleared %d cached searches\n", n)
	}
	return nil
}
