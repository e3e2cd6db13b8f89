package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Location field-group bits.
const (
	LocationInfoName   uint64 = 1
	LocationInfoSite   uint64 = 2
	LocationInfoKind   uint64 = 4
	LocationInfoStatus uint64 = 8
)

// Location is a physical place inside a site (ward, modality room, desk).
// The site group carries the owning site's row id; readers that already
// know the parent redirect it through ReadRecord's out-parameters.
var Location = &Spec{
	Name:  "location",
	Table: "locations",
	Groups: []Group{
		{Bit: LocationInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: LocationInfoSite, Name: "site", Fields: []Field{
			{Key: "site_id", Column: "site_id", Default: "", Check: document.UUID(true)},
		}},
		{Bit: LocationInfoKind, Name: "kind", Fields: []Field{
			{Key: "kind", Column: "kind", Default: "ward",
				Check: document.Enum("ward", "modality", "reading", "office", "other")},
		}},
		{Bit: LocationInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
	},
}
