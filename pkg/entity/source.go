package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Source field-group bits.
const (
	SourceInfoName uint64 = 1
	SourceInfoKind uint64 = 2
	SourceInfoURI  uint64 = 4
)

// Source is an external feed the archive imports from.
var Source = &Spec{
	Name:  "source",
	Table: "sources",
	Groups: []Group{
		{Bit: SourceInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: SourceInfoKind, Name: "kind", Fields: []Field{
			{Key: "kind", Column: "kind", Default: "dicom",
				Check: document.Enum("dicom", "hl7", "folder", "web")},
		}},
		{Bit: SourceInfoURI, Name: "uri", Fields: []Field{
			{Key: "uri", Column: "uri", Default: "", Check: document.String(512, true)},
		}},
	},
}
