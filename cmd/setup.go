package main

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/getlrc/internal/session"
	"github.com/desertthunder/getlrc/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the example config if none exists, creates the data directories and migrates the cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmp.Or(r.configPath, os.Getenv(shared.EnvConfig), shared.ConfigFilePath())

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file exists, leaving it untouched", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.ResolveConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
	}

	cache, paths, err := r.openCache(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	r.logger.Info("setup complete", "data", paths.DataDir, "cache", paths.CacheDB)
	r.writePlain("✓ Config:   %s\n", configPath)
	r.writePlain("✓ Data:     %s\n", paths.DataDir)
	r.writePlain("✓ Cache:    %s\n", paths.CacheDB)
	r.writePlain("✓ Logs:     %s\n", paths.LogFile)
	return nil
}

// Doctor reports resolved paths and checks that every precondition of a scan holds.
func (r *Runner) Doctor(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("getlrc doctor")

	configPath := cmp.Or(r.configPath, os.Getenv(shared.EnvConfig), shared.ConfigFilePath())
	if _, err := os.Stat(configPath); err == nil {
		r.writePlain("✓ Config file:   %s\n", configPath)
	} else {
		r.writePlain("○ Config file:   %s (not found, using defaults)\n", configPath)
	}
	r.writePlain("  LRCLIB:        %s (%d req/s, %s timeout)\n", r.config.Lyrics.BaseURL, r.config.Lyrics.RateLimit, r.config.Lyrics.Timeout())

	cache, paths, err := r.openCache(ctx)
	if err != nil {
		r.writePlain("✗ Data dir:      %v\n", err)
		return err
	}
	defer cache.Close()
	r.writePlain("✓ Data dir:      %s\n", paths.DataDir)

	stats, err := cache.Stats(ctx)
	if err != nil {
		r.writePlain("✗ Cache:         %v\n", err)
		return err
	}
	r.writePlain("✓ Cache:         %s (%d entries)\n", paths.CacheDB, stats.Entries)

	sess, err := session.NewStore(paths.Session, r.logger).Peek()
	switch {
	case err != nil:
		r.writePlain("✗ Session:       %s (%v)\n", paths.Session, err)
	case sess == nil:
		r.writePlain("○ Session:       none\n")
	default:
		r.writePlain("✓ Session:       %s (%s, %d/%d done)\n", paths.Session, sess.RootPath, sess.Processed(), sess.Total())
	}
	r.writePlain("  Log file:      %s\n", paths.LogFile)
	return nil
}
