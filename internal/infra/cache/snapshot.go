// Package cache provides a fast, read-mostly view of player state for
// callers that should not take the engine's own locks directly — the
// network layer's status endpoint and the reconnect recap flow.
package cache

import (
	"sync"
	"time"

	"github.com/emberreach/server/internal/infra/storage"
)

// SnapshotCache holds the latest storage.PlayerSnapshot per player,
// kept current by write-through calls from the engine after each tick
// batch. It is never the source of truth — the engine's in-memory maps
// are — only a cheap place to read from without contending with the
// dispatch goroutine.
type SnapshotCache struct {
	mu   sync.RWMutex
	byID map[string]storage.PlayerSnapshot
}

// NewSnapshotCache builds an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{byID: make(map[string]storage.PlayerSnapshot)}
}

// Put writes through the latest snapshot for a player.
func (c *SnapshotCache) Put(snapshot storage.PlayerSnapshot) {
	snapshot.LastUpdated = time.Now()
	c.mu.Lock()
	c.byID[snapshot.ID] = snapshot
	c.mu.Unlock()
}

// Get returns the cached snapshot for a player, if any.
func (c *SnapshotCache) Get(playerID string) (storage.PlayerSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[playerID]
	return s, ok
}

// All returns every cached snapshot, in no particular order.
func (c *SnapshotCache) All() []storage.PlayerSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]storage.PlayerSnapshot, 0, len(c.byID))
	for _, s := range c.byID {
		out = append(out, s)
	}
	return out
}

// Evict drops a player from the cache, used on disconnect so stale
// positions don't linger in status reads.
func (c *SnapshotCache) Evict(playerID string) {
	c.mu.Lock()
	delete(c.byID, playerID)
	c.mu.Unlock()
}
