// Package cache persists processed records keyed by content hash so
// unchanged files are not reprocessed across runs.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/entity"
)

// Version is the cache logic version. Bump it whenever heuristics change
// in a way that invalidates derived fields; a mismatch at load time
// discards the whole cache and forces full reprocessing.
const Version = "v3"

// FileName of the persisted cache inside the output directory.
const FileName = "manifest_cache.json"

// file is the on-disk layout: a version-tagged map of hash -> record.
type file struct {
	Version     string                    `json:"version"`
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Records     map[string]*entity.Record `json:"records"`
}

// Cache is the in-memory view of one run's reusable records.
type Cache struct {
	path    string
	records map[string]*entity.Record
	logger  *slog.Logger
}

// Load reads the cache below dir. Any failure — missing file, unreadable
// JSON, schema violation, version mismatch — yields an empty cache; a
// broken cache is never an error, only a full reprocess.
func Load(dir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		path:    filepath.Join(dir, FileName),
		records: map[string]*entity.Record{},
		logger:  logger,
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("cache unreadable, reprocessing everything", "path", c.path, "error", err)
		}
		return c
	}
	if err := validate(data); err != nil {
		logger.Warn("cache does not match schema, reprocessing everything", "path", c.path, "error", err)
		return c
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		logger.Warn("cache corrupt, reprocessing everything", "path", c.path, "error", err)
		return c
	}
	if f.Version != Version {
		logger.Info("cache version mismatch, reprocessing everything",
			"cached", f.Version, "current", Version)
		return c
	}
	if f.Records != nil {
		c.records = f.Records
	}
	logger.Debug("cache loaded", "entries", len(c.records))
	return c
}

// Get returns the cached record for a content hash, if any.
func (c *Cache) Get(hash string) (*entity.Record, bool) {
	r, ok := c.records[hash]
	return r, ok
}

// Len returns the number of loaded entries.
func (c *Cache) Len() int {
	return len(c.records)
}

// Save rewrites the cache with the current version and every record
// that is not flagged for review and whose extraction produced a real
// result. Flagged and failed records are deliberately left out so they
// are reconsidered on the next run (for example once OCR is enabled or
// a converter is installed).
func (c *Cache) Save(records []*entity.Record) error {
	f := file{
		Version:     Version,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Records:     map[string]*entity.Record{},
	}
	for _, r := range records {
		if r.NeedsReview || constants.MethodFailed(r.Method) {
			continue
		}
		f.Records[r.ContentHash] = r
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	c.logger.Debug("cache saved", "entries", len(f.Records))
	return nil
}
