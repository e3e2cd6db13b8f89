package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Volume field-group bits.
const (
	VolumeInfoName      uint64 = 1
	VolumeInfoMedia     uint64 = 2
	VolumeInfoStatus    uint64 = 4
	VolumeInfoThreshold uint64 = 8
)

// Volume is a storage volume grouping media slots. The media group is an
// array of media documents validated recursively with their own flags.
var Volume = &Spec{
	Name:  "volume",
	Table: "volumes",
	Groups: []Group{
		{Bit: VolumeInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(64, true)},
		}},
		{Bit: VolumeInfoMedia, Name: "media", Fields: []Field{
			{Key: "media", Sub: Media},
		}},
		{Bit: VolumeInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
		{Bit: VolumeInfoThreshold, Name: "threshold", Fields: []Field{
			{Key: "fill_threshold", Column: "fill_threshold", Default: 90, Check: document.Number(0, 100)},
		}},
	},
}
