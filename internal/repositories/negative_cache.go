package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/getlrc/internal/shared"
)

// CacheStats summarizes the negative cache for the CLI.
type CacheStats struct {
	Entries int
	Oldest  time.Time
	Newest  time.Time
}

// NegativeCache persists fingerprints of tracks known to have no synced lyrics.
//
// Reads are safe from any goroutine; the orchestrator is the only writer during a scan.
type NegativeCache struct {
	db  *sql.DB
	now func() time.Time
}

// NewNegativeCache wraps an already migrated database.
func NewNegativeCache(db *sql.DB) *NegativeCache {
	return &NegativeCache{db: db, now: time.Now}
}

// OpenNegativeCache opens (creating if needed) the cache database at path and migrates it.
func OpenNegativeCache(ctx context.Context, path string, cfg shared.DatabaseConfig) (*NegativeCache, error) {
	db, err := shared.OpenMigrated(ctx, path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open negative cache: %w", err)
	}
	return NewNegativeCache(db), nil
}

// Contains reports whether fingerprint has a negative entry.
func (c *NegativeCache) Contains(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM negative_cache WHERE signature = ?)", fingerprint,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query negative cache: %w", err)
	}
	return exists, nil
}

// Put records fingerprint as a miss. Repeated calls only refresh the timestamp.
func (c *NegativeCache) Put(ctx context.Context, fingerprint string) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO negative_cache (signature, timestamp) VALUES (?, ?)",
		fingerprint, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert negative cache entry: %w", err)
	}
	return nil
}

// Stats counts entries and reports the oldest and newest timestamps.
func (c *NegativeCache) Stats(ctx context.Context) (CacheStats, error) {
	var (
		stats          CacheStats
		oldest, newest sql.NullInt64
	)

	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(timestamp), MAX(timestamp) FROM negative_cache",
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return stats, fmt.Errorf("failed to read negative cache stats: %w", err)
	}

	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (c *NegativeCache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM negative_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear negative cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (c *NegativeCache) Close() error {
	return c.db.Close()
}
