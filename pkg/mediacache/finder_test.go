package mediacache

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMediaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE media (
		seq TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'available',
		folder TEXT NOT NULL DEFAULT '',
		fill_threshold REAL NOT NULL DEFAULT 0,
		kind TEXT NOT NULL DEFAULT 'any',
		slot INTEGER NOT NULL DEFAULT 0,
		volume_id TEXT NOT NULL DEFAULT ''
	)`).Error)
	return db
}

func insertMedia(t *testing.T, db *gorm.DB, seq, volumeID, status, kind, folder string, slot int, threshold float64) {
	t.Helper()
	err := db.Exec(`INSERT INTO media (seq, status, folder, fill_threshold, kind, slot, volume_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq, status, folder, threshold, kind, slot, volumeID).Error
	require.NoError(t, err)
}

func TestStoreFinderAvailableSlotPrefersLowestSlot(t *testing.T) {
	db := setupMediaDB(t)
	insertMedia(t, db, "m-2", "v1", "available", "any", "/cache/v1/002", 2, 85)
	insertMedia(t, db, "m-1", "v1", "full", "any", "/cache/v1/001", 1, 85)
	insertMedia(t, db, "m-3", "v1", "available", "any", "/cache/v1/003", 3, 85)

	finder := NewStoreFinder(db)
	slot, ok, err := finder.AvailableSlot(context.Background(), "v1", "images")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, slot.Number, "full slots are skipped, slot order wins")
	assert.Equal(t, "/cache/v1/002", slot.Path)
	assert.Equal(t, "v1", slot.VolumeID)
	assert.Equal(t, 85.0, slot.FullThreshold)
}

func TestStoreFinderAvailableSlotFiltersByKind(t *testing.T) {
	db := setupMediaDB(t)
	insertMedia(t, db, "m-1", "v1", "available", "reports", "/cache/v1/001", 1, 90)
	insertMedia(t, db, "m-2", "v1", "available", "images", "/cache/v1/002", 2, 90)

	finder := NewStoreFinder(db)
	slot, ok, err := finder.AvailableSlot(context.Background(), "v1", "images")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, slot.Number)

	// "any" requests take the first writable slot regardless of class.
	slot, ok, err = finder.AvailableSlot(context.Background(), "v1", "any")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, slot.Number)
}

func TestStoreFinderNoWritableSlot(t *testing.T) {
	db := setupMediaDB(t)
	insertMedia(t, db, "m-1", "v1", "readonly", "any", "/cache/v1/001", 1, 90)

	finder := NewStoreFinder(db)
	_, ok, err := finder.AvailableSlot(context.Background(), "v1", "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = finder.AvailableSlot(context.Background(), "unknown-volume", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreFinderVolumeSlots(t *testing.T) {
	db := setupMediaDB(t)
	insertMedia(t, db, "m-1", "v1", "available", "any", "/cache/v1/001", 1, 90)
	insertMedia(t, db, "m-2", "v1", "offline", "any", "/cache/v1/002", 2, 90)
	insertMedia(t, db, "m-9", "v2", "available", "any", "/cache/v2/001", 1, 90)

	finder := NewStoreFinder(db)
	slots, err := finder.VolumeSlots(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, slots, 2, "inventory includes non-writable slots")
	assert.Equal(t, "/cache/v1/002", slots[2].Path)
}
