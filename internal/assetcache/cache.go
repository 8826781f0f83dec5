package assetcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"filmstrip/internal/fileutil"
	"filmstrip/internal/logging"
)

const dbFileName = "assets.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS assets (
    url_hash   TEXT PRIMARY KEY,
    url        TEXT NOT NULL,
    file_name  TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    last_used  TEXT NOT NULL
);
`

// Options configures the cache. An empty Dir disables it. Zero limits mean
// unlimited.
type Options struct {
	Dir        string
	MaxMiB     int
	MaxAgeDays int
}

// Cache is a URL-keyed store of downloaded image files.
type Cache struct {
	db       *sql.DB
	dir      string
	maxBytes int64
	maxAge   time.Duration
	logger   *slog.Logger
}

// Open initializes the cache directory and its SQLite index. A blank
// directory returns a nil cache, which every method treats as disabled.
func Open(opts Options, logger *slog.Logger) (*Cache, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	cache := &Cache{
		db:     db,
		dir:    dir,
		logger: logger,
	}
	if opts.MaxMiB > 0 {
		cache.maxBytes = int64(opts.MaxMiB) * 1024 * 1024
	}
	if opts.MaxAgeDays > 0 {
		cache.maxAge = time.Duration(opts.MaxAgeDays) * 24 * time.Hour
	}
	return cache, nil
}

// Enabled reports whether the cache is usable.
func (c *Cache) Enabled() bool {
	return c != nil && c.db != nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Dir returns the cache directory, empty when disabled.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Get copies the cached file for url to destPath and reports whether it was
// present. A row whose backing file has gone missing is dropped and treated
// as a miss.
func (c *Cache) Get(ctx context.Context, url, destPath string) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	hash := urlHash(url)

	var fileName string
	err := c.db.QueryRowContext(ctx, "SELECT file_name FROM assets WHERE url_hash = ?", hash).Scan(&fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup cached asset: %w", err)
	}

	if err := fileutil.CopyFile(filepath.Join(c.dir, fileName), destPath); err != nil {
		_, _ = c.db.ExecContext(ctx, "DELETE FROM assets WHERE url_hash = ?", hash)
		c.logger.Debug("dropped cache row with missing file",
			logging.String("url", url),
			logging.String("file", fileName))
		return false, nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := c.db.ExecContext(ctx, "UPDATE assets SET last_used = ? WHERE url_hash = ?", now, hash); err != nil {
		c.logger.Debug("cache last_used update failed", logging.Error(err))
	}
	c.logger.Debug("asset cache hit", logging.String("url", url))
	return true, nil
}

// Put stores a copy of srcPath under the cache keyed by url. An existing
// entry for the same url is replaced.
func (c *Cache) Put(ctx context.Context, url, srcPath string) error {
	if !c.Enabled() {
		return nil
	}
	hash := urlHash(url)
	fileName := hash + filepath.Ext(srcPath)

	if err := fileutil.CopyFileVerified(srcPath, filepath.Join(c.dir, fileName)); err != nil {
		return fmt.Errorf("copy into cache: %w", err)
	}
	info, err := os.Stat(filepath.Join(c.dir, fileName))
	if err != nil {
		return fmt.Errorf("stat cached file: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO assets (url_hash, url, file_name, size_bytes, last_used) VALUES (?, ?, ?, ?, ?)",
		hash, url, fileName, info.Size(), now)
	if err != nil {
		return fmt.Errorf("record cached asset: %w", err)
	}
	c.logger.Debug("asset cached",
		logging.String("url", url),
		logging.Int64("bytes", info.Size()))
	return nil
}

// Stats summarizes cache occupancy.
type Stats struct {
	Dir        string
	Entries    int
	TotalBytes int64
}

// Stats reports entry count and total stored bytes.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	if !c.Enabled() {
		return Stats{}, nil
	}
	stats := Stats{Dir: c.dir}
	row := c.db.QueryRowContext(ctx, "SELECT COUNT(1), COALESCE(SUM(size_bytes), 0) FROM assets")
	if err := row.Scan(&stats.Entries, &stats.TotalBytes); err != nil {
		return Stats{}, fmt.Errorf("read cache stats: %w", err)
	}
	return stats, nil
}

// PruneResult summarizes an eviction pass.
type PruneResult struct {
	RemovedFiles   int
	ReclaimedBytes int64
}

// Prune drops entries past the age limit, then evicts oldest-first until the
// size limit holds.
func (c *Cache) Prune(ctx context.Context) (PruneResult, error) {
	if !c.Enabled() {
		return PruneResult{}, nil
	}
	return c.pruneAt(ctx, time.Now().UTC())
}

type cacheRow struct {
	hash     string
	fileName string
	size     int64
	lastUsed time.Time
}

func (c *Cache) pruneAt(ctx context.Context, now time.Time) (PruneResult, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT url_hash, file_name, size_bytes, last_used FROM assets")
	if err != nil {
		return PruneResult{}, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []cacheRow
	var total int64
	for rows.Next() {
		var entry cacheRow
		var lastUsed string
		if err := rows.Scan(&entry.hash, &entry.fileName, &entry.size, &lastUsed); err != nil {
			return PruneResult{}, fmt.Errorf("scan cache entry: %w", err)
		}
		// A row with a garbled timestamp sorts oldest so it gets evicted
		// first.
		entry.lastUsed, _ = time.Parse(time.RFC3339Nano, lastUsed)
		entries = append(entries, entry)
		total += entry.size
	}
	if err := rows.Err(); err != nil {
		return PruneResult{}, fmt.Errorf("iterate cache entries: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].lastUsed.Before(entries[j].lastUsed) })

	var result PruneResult
	evict := func(entry cacheRow) error {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM assets WHERE url_hash = ?", entry.hash); err != nil {
			return fmt.Errorf("delete cache row: %w", err)
		}
		_ = os.Remove(filepath.Join(c.dir, entry.fileName))
		result.RemovedFiles++
		result.ReclaimedBytes += entry.size
		total -= entry.size
		return nil
	}

	remaining := entries[:0]
	for _, entry := range entries {
		if c.maxAge > 0 && now.Sub(entry.lastUsed) > c.maxAge {
			if err := evict(entry); err != nil {
				return result, err
			}
			continue
		}
		remaining = append(remaining, entry)
	}
	if c.maxBytes > 0 {
		for _, entry := range remaining {
			if total <= c.maxBytes {
				break
			}
			if err := evict(entry); err != nil {
				return result, err
			}
		}
	}

	if result.RemovedFiles > 0 {
		c.logger.Info("asset cache pruned",
			logging.Int("removed", result.RemovedFiles),
			logging.Int64("reclaimed_bytes", result.ReclaimedBytes))
	}
	return result, nil
}

func urlHash(url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])
}
