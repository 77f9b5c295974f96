// ABOUTME: diskv-backed snapshot cache rooted at the launcher data directory
// ABOUTME: Keeps the state blob in one file with diskv's in-memory read cache in front

package cache

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/peterbourgon/diskv/v3"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

const cacheSizeMax = 1024 * 1024 // 1MB

// DiskCache stores the snapshot on disk through diskv.
type DiskCache struct {
	d      *diskv.Diskv
	dir    string
	logger *slog.Logger
}

// NewDiskCache opens (creating if needed) a cache rooted at dir.
func NewDiskCache(dir string, logger *slog.Logger) (*DiskCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	d := diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: cacheSizeMax,
		FilePerm:     0o600,
		PathPerm:     0o700,
	})

	return &DiskCache{
		d:      d,
		dir:    dir,
		logger: logger.With("component", "cache", "dir", dir),
	}, nil
}

// Save implements Cache.
func (c *DiskCache) Save(snap model.Snapshot) {
	data, err := encode(snap)
	if err != nil {
		c.logger.Warn("failed to encode state", "error", err)
		return
	}
	if err := c.d.Write(StateKey, data); err != nil {
		c.logger.Warn("failed to persist state", "error", err)
		return
	}
	c.logger.Debug("state persisted", "bytes", len(data))
}

// Load implements Cache.
func (c *DiskCache) Load() *model.Snapshot {
	if !c.d.Has(StateKey) {
		return nil
	}
	data, err := c.d.Read(StateKey)
	if err != nil {
		c.logger.Warn("failed to read cached state", "error", err)
		return nil
	}
	return decode(data, c.logger)
}

// Clear removes the stored snapshot.
func (c *DiskCache) Clear() error {
	if !c.d.Has(StateKey) {
		return nil
	}
	if err := c.d.Erase(StateKey); err != nil {
		return fmt.Errorf("erasing cached state: %w", err)
	}
	return nil
}
