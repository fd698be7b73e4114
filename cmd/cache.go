package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"ytspot/internal/repositories"
)

// CacheStats shows how many track lookups are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	db, err := r.database()
	if err != nil {
		return err
	}

	cache := repositories.NewMatchCache(db)
	total, found, notFound, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	r.writePlain("Match cache: %s\n\n", r.config.Database.Path)
	r.writePlain("Cached lookups: %d\n", total)
	r.writePlain("  Matched: %d\n", found)
	r.writePlain("  Not found: %d\n", notFound)

	return nil
}

// CacheClear deletes all cached match entries.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	db, err := r.database()
	if err != nil {
		return err
	}

	cache := repositories.NewMatchCache(db)
	deleted, err := cache.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.writePlain("✓ Cleared %d cached lookups\n", deleted)
	return nil
}
