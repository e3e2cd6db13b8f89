package mediacache

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pacsforge/siteserver/pkg/document"
	"github.com/pacsforge/siteserver/pkg/entity"
	"github.com/pacsforge/siteserver/pkg/query"
)

// mediaFlags is the projection the finder reads: status, folder, fill
// threshold, kind and slot number.
const mediaFlags = entity.MediaInfoStatus | entity.MediaInfoFolder |
	entity.MediaInfoFill | entity.MediaInfoKind | entity.MediaInfoSlot

// StoreFinder resolves media slots through the query translator and the
// media entity's projection table.
type StoreFinder struct {
	db *gorm.DB
}

// NewStoreFinder creates a finder reading from db.
func NewStoreFinder(db *gorm.DB) *StoreFinder {
	return &StoreFinder{db: db}
}

var _ Finder = (*StoreFinder)(nil)

// AvailableSlot scans the volume's media rows in slot order and returns
// the first entry with status "available" that serves kind.
func (f *StoreFinder) AvailableSlot(ctx context.Context, volumeID, kind string) (Slot, bool, error) {
	slots, err := f.load(ctx, volumeID)
	if err != nil {
		return Slot{}, false, err
	}
	for _, m := range slots {
		if m.status != entity.MediaStatusAvailable {
			continue
		}
		if !kindMatches(m.kind, kind) {
			continue
		}
		return m.Slot, true, nil
	}
	return Slot{}, false, nil
}

// VolumeSlots returns every media row of the volume keyed by slot number.
func (f *StoreFinder) VolumeSlots(ctx context.Context, volumeID string) (map[int]Slot, error) {
	slots, err := f.load(ctx, volumeID)
	if err != nil {
		return nil, err
	}
	out := make(map[int]Slot, len(slots))
	for _, m := range slots {
		out[m.Slot.Number] = m.Slot
	}
	return out, nil
}

type mediaRow struct {
	Slot   Slot
	status string
	kind   string
}

func (f *StoreFinder) load(ctx context.Context, volumeID string) ([]mediaRow, error) {
	cols := entity.Media.Columns(mediaFlags, "")
	rows, err := query.Select(ctx, f.db, cols, entity.Media.Table,
		"volume_id = ? ORDER BY slot", query.LockNone,
		query.Named("volume_id", volumeID))
	if err != nil {
		return nil, fmt.Errorf("load media of volume %s: %w", volumeID, err)
	}

	out := make([]mediaRow, 0, len(rows))
	for _, row := range rows {
		doc := document.New()
		if err := entity.Media.ReadRecord(row, mediaFlags, nil, doc); err != nil {
			return nil, fmt.Errorf("read media row: %w", err)
		}
		status, _ := doc.String("status")
		kind, _ := doc.String("kind")
		folder, _ := doc.String("folder")
		threshold, _ := doc.Float("fill_threshold")
		number, _ := doc.Int("slot")
		out = append(out, mediaRow{
			Slot: Slot{
				VolumeID:      volumeID,
				Number:        int(number),
				Path:          folder,
				FullThreshold: threshold,
			},
			status: status,
			kind:   kind,
		})
	}
	return out, nil
}

// kindMatches reports whether a slot serving slotKind accepts objects of
// the requested class. "any" is a wildcard on both sides.
func kindMatches(slotKind, requested string) bool {
	if slotKind == entity.MediaKindAny || requested == entity.MediaKindAny || requested == "" {
		return true
	}
	return slotKind == requested
}
