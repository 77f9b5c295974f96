// ABOUTME: Local snapshot cache contract plus the in-memory implementation
// ABOUTME: Save never fails the caller; Load returns nil when nothing usable is stored

package cache

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// StateKey is the fixed key the snapshot blob is stored under.
const StateKey = "bookos-state"

// Cache is a write-only mirror of the entity store.
type Cache interface {
	// Save persists snap. Failures are logged, never returned.
	Save(snap model.Snapshot)
	// Load returns the stored snapshot, or nil when there is none or it
	// cannot be decoded.
	Load() *model.Snapshot
}

func encode(snap model.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func decode(data []byte, logger *slog.Logger) *model.Snapshot {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("discarding unreadable cached state", "error", err)
		return nil
	}
	return &snap
}

// MemoryCache keeps the encoded snapshot in memory.
type MemoryCache struct {
	mu     sync.Mutex
	data   []byte
	saves  int
	logger *slog.Logger
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(logger *slog.Logger) *MemoryCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryCache{logger: logger.With("component", "cache")}
}

// Save implements Cache.
func (c *MemoryCache) Save(snap model.Snapshot) {
	data, err := encode(snap)
	if err != nil {
		c.logger.Warn("failed to encode state", "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.saves++
}

// Load implements Cache.
func (c *MemoryCache) Load() *model.Snapshot {
	c.mu.Lock()
	data := c.data
	c.mu.Unlock()
	if data == nil {
		return nil
	}
	return decode(data, c.logger)
}

// Saves returns how many times Save stored a snapshot.
func (c *MemoryCache) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

// SetRaw replaces the stored blob as is.
func (c *MemoryCache) SetRaw(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
}
