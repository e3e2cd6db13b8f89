package mediacache

import (
	"context"
	"sync"
)

// InventoryCache retains every known media slot of a volume keyed by slot
// number, so callers can look up the capacity of an already-assigned slot
// without a fresh storage query.
type InventoryCache struct {
	finder Finder

	mu      sync.Mutex
	volumes map[string]map[int]Slot
}

// NewInventoryCache creates an inventory cache over finder.
func NewInventoryCache(finder Finder) *InventoryCache {
	return &InventoryCache{
		finder:  finder,
		volumes: make(map[string]map[int]Slot),
	}
}

// Lookup returns the slot with the given number on the volume, loading
// the volume's full inventory on first access. ok is false when the slot
// is unknown.
func (c *InventoryCache) Lookup(ctx context.Context, volumeID string, number int) (Slot, bool, error) {
	c.mu.Lock()
	slots, cached := c.volumes[volumeID]
	if cached {
		slot, ok := slots[number]
		c.mu.Unlock()
		return slot, ok, nil
	}
	c.mu.Unlock()

	loaded, err := c.finder.VolumeSlots(ctx, volumeID)
	if err != nil {
		return Slot{}, false, err
	}

	c.mu.Lock()
	if existing, ok := c.volumes[volumeID]; ok {
		loaded = existing
	} else {
		c.volumes[volumeID] = loaded
	}
	slot, ok := loaded[number]
	c.mu.Unlock()
	return slot, ok, nil
}

// Invalidate drops the volume's inventory wholesale; the next lookup
// reloads it.
func (c *InventoryCache) Invalidate(volumeID string) {
	c.mu.Lock()
	delete(c.volumes, volumeID)
	c.mu.Unlock()
}
