package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Site field-group bits. Contract values; do not renumber.
const (
	SiteInfoName    uint64 = 1
	SiteInfoUID     uint64 = 2
	SiteInfoStatus  uint64 = 4
	SiteInfoComment uint64 = 8

	// SiteInfoAll selects every known column, bypassing the group table.
	SiteInfoAll uint64 = 0xFFFFFFFF
)

// Site is the archive site itself: one row per served installation.
var Site = &Spec{
	Name:    "site",
	Table:   "sites",
	InfoAll: SiteInfoAll,
	Groups: []Group{
		{Bit: SiteInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(64, true)},
		}},
		{Bit: SiteInfoUID, Name: "uid", Fields: []Field{
			{Key: "uid", Column: "uid", Default: "", Check: dicomUID(64)},
		}},
		{Bit: SiteInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
		{Bit: SiteInfoComment, Name: "comment", Fields: []Field{
			{Key: "comment", Column: "comment", Default: "", Check: document.String(1024, true)},
		}},
	},
}
