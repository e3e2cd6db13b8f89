package entity

import (
	"regexp"

	"github.com/pacsforge/siteserver/pkg/document"
)

// Catalog returns every entity spec the archive knows, in a stable order.
// Tests run Spec.Check and the create/verify round-trip over this list.
func Catalog() []*Spec {
	return []*Spec{
		Site,
		Organization,
		Location,
		Media,
		Volume,
		DicomAE,
		DicomClient,
		Report,
		ReportTemplate,
		RoutingRule,
		Routing,
		RoutingLine,
		PreferenceItem,
		PreferenceSet,
		Source,
		PartitionStudyLink,
		PartitionClientLink,
	}
}

// LookupSpec returns the spec with the given entity name.
func LookupSpec(name string) (*Spec, bool) {
	for _, s := range Catalog() {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// dicomUIDPattern is the dotted-decimal DICOM UID form.
var dicomUIDPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// dicomUID checks an optional DICOM UID: empty passes, anything else must
// be dotted-decimal of at most maxLen characters.
func dicomUID(maxLen int) document.CheckFunc {
	return func(d *document.Document, key string) error {
		if err := document.String(maxLen, true)(d, key); err != nil {
			return err
		}
		s, _ := d.String(key)
		if s == "" {
			return nil
		}
		return document.StringPattern(dicomUIDPattern, maxLen)(d, key)
	}
}

// lifecycle statuses shared by most entities. Soft delete keeps the row
// with status "deleted".
func statusCheck() document.CheckFunc {
	return document.Enum("active", "inactive", "deleted")
}
