// Package entity implements the flag-projected entity model of the archive.
//
// Every entity kind is described by one declarative Spec table mapping
// bitmask bits to field groups. A single generic engine derives the three
// operations every entity needs — Create, Verify, Columns/ReadRecord — from
// that one table, so the defaults used to build a document, the checks used
// to validate it, and the columns projected from storage cannot drift apart.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pacsforge/siteserver/pkg/document"
)

// Version is the schema version every persisted document must carry.
// Any other value is rejected outright; this is a storage compatibility
// gate, not a feature flag.
const Version = "1.0.0"

// Reserved document keys.
const (
	KeySeq     = "seq"
	KeyVersion = "version"
	KeyFlags   = "flags"
)

// Field describes one key a field group introduces.
//
// Scalar fields carry a storage Column and a Check. Array-of-subentity
// fields set Sub (and optionally SubMust) instead; they have no storage
// column of their own — the rows live in the child entity's table.
type Field struct {
	Key     string
	Column  string
	Default any
	Check   document.CheckFunc
	Sub     *Spec
	SubMust uint64
}

// Group is a named, single-bit-addressable subset of an entity's optional
// fields. Fields within a group co-occur: selecting the bit introduces all
// of them, and verification requires all of them.
type Group struct {
	Bit    uint64
	Name   string
	Fields []Field
}

// Spec is the complete declarative table for one entity kind. The bit
// values are part of the storage and API contract and must not be
// renumbered without a version bump.
type Spec struct {
	Name   string
	Table  string
	Groups []Group

	// InfoAll, when non-zero, is a sentinel flags value meaning "every
	// known column, ignore the group table". It is a deliberate shortcut
	// for full-row fetches, kept as a distinct code path.
	InfoAll uint64
}

// selected returns the groups chosen by flags, honoring the InfoAll
// sentinel.
func (s *Spec) selected(flags uint64) []Group {
	if s.InfoAll != 0 && flags == s.InfoAll {
		return s.Groups
	}
	var groups []Group
	for _, g := range s.Groups {
		if flags&g.Bit != 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// AllFlags returns the bitmask with every group of the entity selected.
func (s *Spec) AllFlags() uint64 {
	var flags uint64
	for _, g := range s.Groups {
		flags |= g.Bit
	}
	return flags
}

// Create produces a fresh document holding the reserved keys plus the
// defaults of every field group selected by flags. The document is not
// persisted: seq is empty until a row exists.
func (s *Spec) Create(flags uint64) *document.Document {
	doc := document.New()
	doc.Set(KeySeq, "")
	doc.Set(KeyVersion, Version)
	doc.Set(KeyFlags, flags)
	for _, g := range s.selected(flags) {
		for _, f := range g.Fields {
			if f.Sub != nil {
				doc.Set(f.Key, []*document.Document{})
				continue
			}
			doc.Set(f.Key, f.Default)
		}
	}
	return doc
}

// Verify gates doc against the spec. It checks the reserved keys first
// (seq is a UUID, required iff withSeq; version must equal Version; flags
// must be present and numeric), then mustFlags against the document's own
// flags, then every field of every group selected by the document's flags.
// The first failing check fails the call.
func (s *Spec) Verify(doc *document.Document, withSeq bool, mustFlags uint64) error {
	if doc == nil {
		return fmt.Errorf("%s: %w: nil document", s.Name, document.ErrInvalid)
	}
	if err := document.UUID(!withSeq)(doc, KeySeq); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	ver, ok := doc.String(KeyVersion)
	if !ok {
		return fmt.Errorf("%s: %w", s.Name,
			&document.FieldError{Key: KeyVersion, Reason: "missing or not a string"})
	}
	if ver != Version {
		return fmt.Errorf("%s: %w", s.Name,
			&document.FieldError{Key: KeyVersion, Reason: fmt.Sprintf("got %q, want %q", ver, Version)})
	}
	flags, ok := doc.Uint(KeyFlags)
	if !ok {
		return fmt.Errorf("%s: %w", s.Name,
			&document.FieldError{Key: KeyFlags, Reason: "missing or not numeric"})
	}
	if missing := mustFlags &^ flags; missing != 0 {
		return fmt.Errorf("%s: %w", s.Name, &document.FieldError{
			Key:    KeyFlags,
			Reason: fmt.Sprintf("required groups absent: %s", s.groupNames(missing)),
		})
	}

	for _, g := range s.selected(flags) {
		for _, f := range g.Fields {
			if f.Sub != nil {
				if err := s.verifyArray(doc, f); err != nil {
					return err
				}
				continue
			}
			if f.Check == nil {
				continue
			}
			if err := f.Check(doc, f.Key); err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
		}
	}
	return nil
}

// verifyArray validates an array-of-subentity field recursively. Each
// subdocument is verified with its own flags against the child spec and
// the field's SubMust requirement, independent of the parent's flags.
func (s *Spec) verifyArray(doc *document.Document, f Field) error {
	subs, ok := doc.Documents(f.Key)
	if !ok {
		return fmt.Errorf("%s: %w", s.Name,
			&document.FieldError{Key: f.Key, Reason: "missing or not an array of documents"})
	}
	for i, sub := range subs {
		if err := f.Sub.Verify(sub, false, f.SubMust); err != nil {
			return fmt.Errorf("%s: %s[%d]: %w", s.Name, f.Key, i, err)
		}
	}
	return nil
}

// Columns returns the storage columns needed to materialize the field
// groups selected by flags, optionally qualified with a table alias. The
// seq column always comes first; after it, columns appear in group order.
// ReadRecord consumes row values in exactly this order and count.
func (s *Spec) Columns(flags uint64, alias string) []string {
	fields := s.columnFields(flags)
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, qualify(alias, "seq"))
	for _, f := range fields {
		cols = append(cols, qualify(alias, f.Column))
	}
	return cols
}

// columnFields returns the selected fields that have a storage column, in
// projection order.
func (s *Spec) columnFields(flags uint64) []Field {
	var fields []Field
	for _, g := range s.selected(flags) {
		for _, f := range g.Fields {
			if f.Column != "" && f.Sub == nil {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// ReadRecord populates doc from a positional row selected via the matching
// Columns call. The document is seeded with Create(flags) defaults, then
// each projected field is overwritten from successive row positions.
//
// A field whose key appears in parents is written to the caller's
// out-pointer instead of the document — the foreign-key redirection used
// when a child row is read in the context of an already-known parent.
// The redirected group's bit is cleared from the document's flags so the
// document stays consistent with the keys it actually carries.
func (s *Spec) ReadRecord(row []any, flags uint64, parents map[string]*string, doc *document.Document) error {
	if doc == nil {
		return fmt.Errorf("%s: %w: nil document", s.Name, document.ErrInvalid)
	}
	fields := s.columnFields(flags)
	if len(row) != len(fields)+1 {
		return fmt.Errorf("%s: row carries %d values, projection for flags %#x needs %d",
			s.Name, len(row), flags, len(fields)+1)
	}

	seeded := s.Create(flags)
	for _, k := range seeded.Keys() {
		v, _ := seeded.Get(k)
		doc.Set(k, v)
	}

	seq, err := stringValue(row[0])
	if err != nil {
		return fmt.Errorf("%s: seq: %w", s.Name, err)
	}
	doc.Set(KeySeq, seq)

	redirected := false
	for i, f := range fields {
		v := normalize(row[i+1])
		if out, ok := parents[f.Key]; ok && out != nil {
			sv, err := stringValue(v)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", s.Name, f.Key, err)
			}
			*out = sv
			doc.Delete(f.Key)
			redirected = true
			continue
		}
		doc.Set(f.Key, v)
	}

	if redirected {
		cleared := flags
		for _, g := range s.selected(flags) {
			for _, f := range g.Fields {
				if out, ok := parents[f.Key]; ok && out != nil {
					cleared &^= g.Bit
				}
			}
		}
		doc.Set(KeyFlags, cleared)
	}
	return nil
}

// Values extracts doc's projected fields as bind values in Columns order:
// seq first, then the selected scalar fields. The inverse of ReadRecord;
// used to build INSERT and UPDATE statements from a verified document.
func (s *Spec) Values(doc *document.Document, flags uint64) ([]any, error) {
	if doc == nil {
		return nil, fmt.Errorf("%s: %w: nil document", s.Name, document.ErrInvalid)
	}
	fields := s.columnFields(flags)
	out := make([]any, 0, len(fields)+1)
	seq, _ := doc.String(KeySeq)
	out = append(out, seq)
	for _, f := range fields {
		v, ok := doc.Get(f.Key)
		if !ok {
			return nil, fmt.Errorf("%s: %w", s.Name,
				&document.FieldError{Key: f.Key, Reason: "missing"})
		}
		out = append(out, bindValue(v))
	}
	return out, nil
}

// bindValue maps document value kinds onto driver bind values.
func bindValue(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	}
	return v
}

// Check validates the spec table itself: bits must be distinct powers of
// two, keys and columns must not collide with each other or with the
// reserved keys. The catalog test runs it over every entity.
func (s *Spec) Check() error {
	bits := mapset.NewThreadUnsafeSet[uint64]()
	keys := mapset.NewThreadUnsafeSet[string](KeySeq, KeyVersion, KeyFlags)
	cols := mapset.NewThreadUnsafeSet[string]("seq")

	for _, g := range s.Groups {
		if g.Bit == 0 || g.Bit&(g.Bit-1) != 0 {
			return fmt.Errorf("%s: group %q: bit %#x is not a single power of two", s.Name, g.Name, g.Bit)
		}
		if !bits.Add(g.Bit) {
			return fmt.Errorf("%s: group %q: duplicate bit %#x", s.Name, g.Name, g.Bit)
		}
		if s.InfoAll != 0 && g.Bit == s.InfoAll {
			return fmt.Errorf("%s: group %q: bit collides with the InfoAll sentinel", s.Name, g.Name)
		}
		if len(g.Fields) == 0 {
			return fmt.Errorf("%s: group %q: no fields", s.Name, g.Name)
		}
		for _, f := range g.Fields {
			if !keys.Add(f.Key) {
				return fmt.Errorf("%s: group %q: duplicate key %q", s.Name, g.Name, f.Key)
			}
			if f.Sub != nil {
				if f.Column != "" {
					return fmt.Errorf("%s: group %q: array field %q must not carry a column", s.Name, g.Name, f.Key)
				}
				continue
			}
			if f.Column != "" && !cols.Add(f.Column) {
				return fmt.Errorf("%s: group %q: duplicate column %q", s.Name, g.Name, f.Column)
			}
		}
	}
	return nil
}

// groupNames renders the names of the groups selected by mask, for error
// messages.
func (s *Spec) groupNames(mask uint64) string {
	var names []string
	for _, g := range s.Groups {
		if mask&g.Bit != 0 {
			names = append(names, g.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("%#x", mask)
	}
	return strings.Join(names, ", ")
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

// normalize maps driver-level row values onto document value kinds.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case nil:
		return nil
	default:
		return v
	}
}

func stringValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("value %T is not a string", v)
}
