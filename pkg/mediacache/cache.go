// Package mediacache decides where newly archived objects land: a
// per-volume cache of the currently writable media slot, invalidated by a
// periodic disk-space sweep, plus an inventory variant that retains every
// known slot of a volume.
//
// Storage and filesystem probes run outside the cache locks so a slow
// device cannot stall concurrent lookups.
package mediacache

import (
	"context"
	"log/slog"
	"sync"
)

// Slot describes one writable media location on a volume.
type Slot struct {
	VolumeID      string
	Number        int
	Path          string
	FullThreshold float64 // used-space percentage beyond which the slot is full
}

// Finder resolves media slots from storage. Implemented by StoreFinder;
// tests substitute their own.
type Finder interface {
	// AvailableSlot returns the first media slot of the volume with
	// status "available" serving the given target class. ok is false when
	// the volume has no writable slot — that is "no destination", not an
	// error.
	AvailableSlot(ctx context.Context, volumeID, kind string) (slot Slot, ok bool, err error)
	// VolumeSlots returns every known media slot of the volume keyed by
	// slot number.
	VolumeSlots(ctx context.Context, volumeID string) (map[int]Slot, error)
}

// Space probes a filesystem path for free and total bytes.
type Space func(path string) (free, total uint64, err error)

// PlacementCache caches the currently writable slot per (volume, class).
type PlacementCache struct {
	finder Finder
	space  Space
	logger *slog.Logger

	mu      sync.Mutex
	current map[placementKey]Slot
}

type placementKey struct {
	volumeID string
	kind     string
}

// NewPlacementCache creates a placement cache over finder. The filesystem
// probe defaults to DiskSpace.
func NewPlacementCache(finder Finder, logger *slog.Logger) *PlacementCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlacementCache{
		finder:  finder,
		space:   DiskSpace,
		logger:  logger,
		current: make(map[placementKey]Slot),
	}
}

// SetSpace replaces the filesystem probe. Intended for tests.
func (c *PlacementCache) SetSpace(space Space) {
	if space != nil {
		c.space = space
	}
}

// CurrentMediaFolder returns the writable slot for the volume and target
// class. Warm lookups are served from the cache; a cold lookup queries
// storage for the first available slot and caches it. ok is false when no
// slot is available.
func (c *PlacementCache) CurrentMediaFolder(ctx context.Context, volumeID, kind string) (Slot, bool, error) {
	key := placementKey{volumeID: volumeID, kind: kind}

	c.mu.Lock()
	if slot, ok := c.current[key]; ok {
		c.mu.Unlock()
		return slot, true, nil
	}
	c.mu.Unlock()

	slot, ok, err := c.finder.AvailableSlot(ctx, volumeID, kind)
	if err != nil {
		return Slot{}, false, err
	}
	if !ok {
		return Slot{}, false, nil
	}

	c.mu.Lock()
	// A concurrent cold lookup may have resolved first; keep its answer
	// so both callers write to the same slot.
	if cached, exists := c.current[key]; exists {
		slot = cached
	} else {
		c.current[key] = slot
	}
	c.mu.Unlock()
	return slot, true, nil
}

// Invalidate drops every cached entry for the volume.
func (c *PlacementCache) Invalidate(volumeID string) {
	c.mu.Lock()
	for key := range c.current {
		if key.volumeID == volumeID {
			delete(c.current, key)
		}
	}
	c.mu.Unlock()
}

// CheckMedia sweeps every cached slot: the filesystem is probed for
// actual usage, and entries whose used ratio exceeds their threshold are
// evicted so the next lookup re-resolves. A probe failure also evicts —
// fail safe toward re-resolution, never toward serving a possibly full
// device. Returns the number of evicted entries.
func (c *PlacementCache) CheckMedia() int {
	c.mu.Lock()
	entries := make(map[placementKey]Slot, len(c.current))
	for k, v := range c.current {
		entries[k] = v
	}
	c.mu.Unlock()

	var evict []placementKey
	for key, slot := range entries {
		free, total, err := c.space(slot.Path)
		if err != nil {
			c.logger.Warn("media space probe failed, evicting",
				"volume", slot.VolumeID, "slot", slot.Number, "error", err)
			evict = append(evict, key)
			continue
		}
		if total == 0 {
			evict = append(evict, key)
			continue
		}
		used := float64(total-free) / float64(total) * 100
		if used > slot.FullThreshold {
			c.logger.Info("media slot over threshold, evicting",
				"volume", slot.VolumeID, "slot", slot.Number,
				"used", used, "threshold", slot.FullThreshold)
			evict = append(evict, key)
		}
	}

	c.mu.Lock()
	for _, key := range evict {
		delete(c.current, key)
	}
	c.mu.Unlock()
	return len(evict)
}
