package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/getlrc/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats reports how many tracks are remembered as having no synced lyrics.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	cache, paths, err := r.openCache(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"path":    paths.CacheDB,
			"entries": stats.Entries,
			"oldest":  formatTime(stats.Oldest),
			"newest":  formatTime(stats.Newest),
		}, true)
	}

	r.writePlain("Cache:   %s\n", paths.CacheDB)
	r.writePlain("Entries: %d\n", stats.Entries)
	if stats.Entries > 0 {
		r.writePlain("Oldest:  %s\n", stats.Oldest.Local().Format(time.DateTime))
		r.writePlain("Newest:  %s\n", stats.Newest.Local().Format(time.DateTime))
	}
	return nil
}

// CacheCheck reports whether artist/title would be skipped as a cached miss.
func (r *Runner) CacheCheck(ctx context.Context, cmd *cli.Command) error {
	artist, title := cmd.StringArg("artist"), cmd.StringArg("title")
	if artist == "" || title == "" {
		return fmt.Errorf("%w: artist and title", shared.ErrMissingArgument)
	}

	cache, _, err := r.openCache(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	fp := shared.TrackFingerprint(title, artist)
	hit, err := cache.Contains(ctx, fp)
	if err != nil {
		return err
	}

	r.logger.Debug("cache check", "key", shared.NormalizeTrackKey(title, artist), "fingerprint", fp)
	if hit {
		r.writePlain("[~] %s - %s is cached as having no synced lyrics\n", artist, title)
	} else {
		r.writePlain("[ ] %s - %s is not cached\n", artist, title)
	}
	return nil
}

// CacheClear deletes every entry. The pipeline itself never removes entries.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete every cached miss", shared.ErrMissingArgument)
	}

	cache, paths, err := r.openCache(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Clear(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("negative cache cleared", "path", paths.CacheDB, "entries", n)
	r.writePlain("✓ Removed %d cached misses\n", n)
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
