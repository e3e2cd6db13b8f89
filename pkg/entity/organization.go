package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Organization field-group bits.
const (
	OrganizationInfoName    uint64 = 1
	OrganizationInfoAddress uint64 = 2
	OrganizationInfoStatus  uint64 = 4
)

var Organization = &Spec{
	Name:  "organization",
	Table: "organizations",
	Groups: []Group{
		{Bit: OrganizationInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: OrganizationInfoAddress, Name: "address", Fields: []Field{
			{Key: "address", Column: "address", Default: "", Check: document.String(512, true)},
		}},
		{Bit: OrganizationInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
	},
}
