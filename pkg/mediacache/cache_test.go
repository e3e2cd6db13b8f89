package mediacache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFinder serves canned slots and counts storage hits.
type fakeFinder struct {
	mu    sync.Mutex
	slots map[string][]Slot // per volume, in slot order
	calls int
	err   error
}

func newFakeFinder() *fakeFinder {
	return &fakeFinder{slots: make(map[string][]Slot)}
}

func (f *fakeFinder) add(slot Slot) {
	f.mu.Lock()
	f.slots[slot.VolumeID] = append(f.slots[slot.VolumeID], slot)
	f.mu.Unlock()
}

func (f *fakeFinder) AvailableSlot(_ context.Context, volumeID, _ string) (Slot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Slot{}, false, f.err
	}
	slots := f.slots[volumeID]
	if len(slots) == 0 {
		return Slot{}, false, nil
	}
	return slots[0], true, nil
}

func (f *fakeFinder) VolumeSlots(_ context.Context, volumeID string) (map[int]Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]Slot)
	for _, s := range f.slots[volumeID] {
		out[s.Number] = s
	}
	return out, nil
}

func (f *fakeFinder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func roomySpace(string) (uint64, uint64, error) {
	return 900, 1000, nil // 10% used
}

func TestCurrentMediaFolderCachesColdLookup(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/cache/v1/001", FullThreshold: 90})

	cache := NewPlacementCache(finder, slog.Default())
	cache.SetSpace(roomySpace)

	slot, ok, err := cache.CurrentMediaFolder(context.Background(), "v1", "images")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/cache/v1/001", slot.Path)
	assert.Equal(t, 1, finder.callCount())

	// Warm lookups never reach storage.
	for i := 0; i < 3; i++ {
		again, ok, err := cache.CurrentMediaFolder(context.Background(), "v1", "images")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, slot, again)
	}
	assert.Equal(t, 1, finder.callCount())
}

func TestCurrentMediaFolderKeyedByKind(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/cache/v1/001", FullThreshold: 90})

	cache := NewPlacementCache(finder, slog.Default())
	cache.SetSpace(roomySpace)

	_, _, err := cache.CurrentMediaFolder(context.Background(), "v1", "images")
	require.NoError(t, err)
	_, _, err = cache.CurrentMediaFolder(context.Background(), "v1", "reports")
	require.NoError(t, err)
	assert.Equal(t, 2, finder.callCount(), "each target class resolves separately")
}

func TestCurrentMediaFolderNoWritableSlot(t *testing.T) {
	cache := NewPlacementCache(newFakeFinder(), slog.Default())

	_, ok, err := cache.CurrentMediaFolder(context.Background(), "empty", "")
	require.NoError(t, err)
	assert.False(t, ok, "no destination is not an error")
}

func TestCurrentMediaFolderPropagatesFinderError(t *testing.T) {
	finder := newFakeFinder()
	finder.err = errors.New("storage down")
	cache := NewPlacementCache(finder, slog.Default())

	_, _, err := cache.CurrentMediaFolder(context.Background(), "v1", "")
	assert.Error(t, err)
}

func TestInvalidateForcesReResolution(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/cache/v1/001", FullThreshold: 90})
	cache := NewPlacementCache(finder, slog.Default())
	cache.SetSpace(roomySpace)

	_, _, err := cache.CurrentMediaFolder(context.Background(), "v1", "")
	require.NoError(t, err)

	cache.Invalidate("v1")
	_, _, err = cache.CurrentMediaFolder(context.Background(), "v1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, finder.callCount())
}

func TestCheckMediaEvictsOverThreshold(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/full", FullThreshold: 80})
	finder.add(Slot{VolumeID: "v2", Number: 1, Path: "/roomy", FullThreshold: 80})

	cache := NewPlacementCache(finder, slog.Default())
	cache.SetSpace(func(path string) (uint64, uint64, error) {
		if path == "/full" {
			return 100, 1000, nil // 90% used, over the 80% threshold
		}
		return 900, 1000, nil
	})

	_, _, err := cache.CurrentMediaFolder(context.Background(), "v1", "")
	require.NoError(t, err)
	_, _, err = cache.CurrentMediaFolder(context.Background(), "v2", "")
	require.NoError(t, err)
	calls := finder.callCount()

	assert.Equal(t, 1, cache.CheckMedia())

	// Only the evicted volume re-resolves.
	_, _, err = cache.CurrentMediaFolder(context.Background(), "v2", "")
	require.NoError(t, err)
	assert.Equal(t, calls, finder.callCount())

	_, _, err = cache.CurrentMediaFolder(context.Background(), "v1", "")
	require.NoError(t, err)
	assert.Equal(t, calls+1, finder.callCount())
}

func TestCheckMediaProbeFailureEvicts(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/gone", FullThreshold: 90})

	cache := NewPlacementCache(finder, slog.Default())
	cache.SetSpace(roomySpace)
	_, _, err := cache.CurrentMediaFolder(context.Background(), "v1", "")
	require.NoError(t, err)

	cache.SetSpace(func(string) (uint64, uint64, error) {
		return 0, 0, errors.New("device unmounted")
	})
	assert.Equal(t, 1, cache.CheckMedia())
}

func TestCheckMediaAtThresholdStays(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/edge", FullThreshold: 90})

	cache := NewPlacementCache(finder, slog.Default())
	cache.SetSpace(func(string) (uint64, uint64, error) {
		return 100, 1000, nil // exactly 90% used
	})

	_, _, err := cache.CurrentMediaFolder(context.Background(), "v1", "")
	require.NoError(t, err)
	assert.Equal(t, 0, cache.CheckMedia(), "eviction requires exceeding the threshold")
}

func TestInventoryCacheLookup(t *testing.T) {
	finder := newFakeFinder()
	finder.add(Slot{VolumeID: "v1", Number: 1, Path: "/cache/v1/001"})
	finder.add(Slot{VolumeID: "v1", Number: 2, Path: "/cache/v1/002"})

	inv := NewInventoryCache(finder)

	slot, ok, err := inv.Lookup(context.Background(), "v1", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/cache/v1/002", slot.Path)

	// The whole volume loaded in one storage round trip.
	_, ok, err = inv.Lookup(context.Background(), "v1", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, finder.callCount())

	_, ok, err = inv.Lookup(context.Background(), "v1", 99)
	require.NoError(t, err)
	assert.False(t, ok)

	inv.Invalidate("v1")
	_, _, err = inv.Lookup(context.Background(), "v1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, finder.callCount())
}

func TestKindMatches(t *testing.T) {
	assert.True(t, kindMatches("any", "images"))
	assert.True(t, kindMatches("images", "any"))
	assert.True(t, kindMatches("images", ""))
	assert.True(t, kindMatches("images", "images"))
	assert.False(t, kindMatches("images", "reports"))
}
