package entity

import "github.com/pacsforge/siteserver/pkg/document"

// PreferenceItem field-group bits.
const (
	PreferenceItemInfoName  uint64 = 1
	PreferenceItemInfoValue uint64 = 2
	PreferenceItemInfoKind  uint64 = 4
)

// PreferenceSet field-group bits.
const (
	PreferenceSetInfoName  uint64 = 1
	PreferenceSetInfoItems uint64 = 2
	PreferenceSetInfoOwner uint64 = 4
)

// PreferenceItemKindUnknown is the sentinel for an item whose value type
// has not been declared yet.
const PreferenceItemKindUnknown = -1

// PreferenceItem is one named setting inside a preference set.
var PreferenceItem = &Spec{
	Name:  "preferenceitem",
	Table: "preference_items",
	Groups: []Group{
		{Bit: PreferenceItemInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: PreferenceItemInfoValue, Name: "value", Fields: []Field{
			{Key: "value", Column: "value", Default: "", Check: document.String(4096, true)},
		}},
		{Bit: PreferenceItemInfoKind, Name: "kind", Fields: []Field{
			{Key: "kind", Column: "kind", Default: PreferenceItemKindUnknown,
				Check: document.Int(PreferenceItemKindUnknown, 10)},
		}},
	},
}

// PreferenceSet is a named collection of preference items owned by a user.
var PreferenceSet = &Spec{
	Name:  "preferenceset",
	Table: "preference_sets",
	Groups: []Group{
		{Bit: PreferenceSetInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: PreferenceSetInfoItems, Name: "items", Fields: []Field{
			{Key: "items", Sub: PreferenceItem},
		}},
		{Bit: PreferenceSetInfoOwner, Name: "owner", Fields: []Field{
			{Key: "owner_id", Column: "owner_id", Default: "", Check: document.UUID(true)},
		}},
	},
}
