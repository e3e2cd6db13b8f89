package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Media field-group bits.
const (
	MediaInfoStatus uint64 = 1
	MediaInfoFolder uint64 = 2
	MediaInfoFill   uint64 = 4
	MediaInfoKind   uint64 = 8
	MediaInfoSlot   uint64 = 16
	MediaInfoVolume uint64 = 32

	// MediaInfoAll selects every known column, bypassing the group table.
	MediaInfoAll uint64 = 0xFFFFFFFF
)

// Media slot statuses.
const (
	MediaStatusAvailable = "available"
	MediaStatusFull      = "full"
	MediaStatusReadonly  = "readonly"
	MediaStatusOffline   = "offline"
)

// Media target classes.
const (
	MediaKindAny     = "any"
	MediaKindImages  = "images"
	MediaKindReports = "reports"
	MediaKindTemp    = "temp"
	MediaKindLogs    = "logs"
)

// Media is a numbered storage slot on a volume that receives newly
// archived objects. fill_threshold is the used-space percentage beyond
// which the slot counts as full; it accepts integer or real because
// upstream producers are inconsistent about the representation.
var Media = &Spec{
	Name:    "media",
	Table:   "media",
	InfoAll: MediaInfoAll,
	Groups: []Group{
		{Bit: MediaInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: MediaStatusAvailable,
				Check: document.Enum(MediaStatusAvailable, MediaStatusFull, MediaStatusReadonly, MediaStatusOffline)},
		}},
		{Bit: MediaInfoFolder, Name: "folder", Fields: []Field{
			{Key: "folder", Column: "folder", Default: "", Check: document.String(255, true)},
		}},
		{Bit: MediaInfoFill, Name: "fill", Fields: []Field{
			{Key: "fill_threshold", Column: "fill_threshold", Default: 0, Check: document.Number(0, 100)},
		}},
		{Bit: MediaInfoKind, Name: "kind", Fields: []Field{
			{Key: "kind", Column: "kind", Default: MediaKindAny,
				Check: document.Enum(MediaKindAny, MediaKindImages, MediaKindReports, MediaKindTemp, MediaKindLogs)},
		}},
		{Bit: MediaInfoSlot, Name: "slot", Fields: []Field{
			{Key: "slot", Column: "slot", Default: 0, Check: document.Int(0, 99999)},
		}},
		{Bit: MediaInfoVolume, Name: "volume", Fields: []Field{
			{Key: "volume_id", Column: "volume_id", Default: "", Check: document.UUID(true)},
		}},
	},
}
