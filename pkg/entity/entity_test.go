package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacsforge/siteserver/pkg/document"
)

func TestCatalogSpecsAreWellFormed(t *testing.T) {
	specs := Catalog()
	require.NotEmpty(t, specs)

	seen := map[string]bool{}
	for _, s := range specs {
		assert.NoError(t, s.Check(), "spec %s", s.Name)
		assert.False(t, seen[s.Name], "duplicate spec name %s", s.Name)
		seen[s.Name] = true
	}
}

func TestCreatedDocumentsAlwaysVerify(t *testing.T) {
	// A freshly created document must pass its own verification for any
	// single group and for the full selection.
	for _, s := range Catalog() {
		for _, g := range s.Groups {
			doc := s.Create(g.Bit)
			assert.NoError(t, s.Verify(doc, false, 0), "%s group %s", s.Name, g.Name)
		}
		doc := s.Create(s.AllFlags())
		assert.NoError(t, s.Verify(doc, false, 0), "%s all groups", s.Name)
	}
}

func TestCreateSetsReservedKeysFirst(t *testing.T) {
	doc := Site.Create(SiteInfoName | SiteInfoStatus)

	keys := doc.Keys()
	require.GreaterOrEqual(t, len(keys), 3)
	assert.Equal(t, []string{KeySeq, KeyVersion, KeyFlags}, keys[:3])

	seq, _ := doc.String(KeySeq)
	assert.Equal(t, "", seq, "unpersisted documents carry an empty seq")
	ver, _ := doc.String(KeyVersion)
	assert.Equal(t, Version, ver)
	flags, _ := doc.Uint(KeyFlags)
	assert.Equal(t, SiteInfoName|SiteInfoStatus, flags)
}

func TestVerifyRejectsWrongVersion(t *testing.T) {
	doc := Site.Create(SiteInfoName)
	doc.Set(KeyVersion, "2.0.0")
	err := Site.Verify(doc, false, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrInvalid))

	doc.Delete(KeyVersion)
	assert.Error(t, Site.Verify(doc, false, 0))
}

func TestVerifySeqRequirement(t *testing.T) {
	doc := Site.Create(SiteInfoName)

	// Unpersisted: empty seq passes, but only when withSeq is false.
	assert.NoError(t, Site.Verify(doc, false, 0))
	assert.Error(t, Site.Verify(doc, true, 0))

	doc.Set(KeySeq, "123e4567-e89b-12d3-a456-426614174000")
	assert.NoError(t, Site.Verify(doc, true, 0))

	doc.Set(KeySeq, "row-17")
	assert.Error(t, Site.Verify(doc, true, 0), "a non-UUID seq never passes")
}

func TestVerifyMustFlags(t *testing.T) {
	doc := Site.Create(SiteInfoName)

	assert.NoError(t, Site.Verify(doc, false, SiteInfoName))
	err := Site.Verify(doc, false, SiteInfoName|SiteInfoStatus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status", "missing groups are named")
}

func TestVerifyChecksOnlySelectedGroups(t *testing.T) {
	doc := Site.Create(SiteInfoName)
	// A broken value in a group the flags do not select is invisible.
	doc.Set("status", "nonsense")
	assert.NoError(t, Site.Verify(doc, false, 0))

	flags, _ := doc.Uint(KeyFlags)
	doc.Set(KeyFlags, flags|SiteInfoStatus)
	assert.Error(t, Site.Verify(doc, false, 0))
}

func TestVolumeCreateWithMediaGroup(t *testing.T) {
	doc := Volume.Create(VolumeInfoName | VolumeInfoMedia)

	flags, _ := doc.Uint(KeyFlags)
	assert.Equal(t, uint64(3), flags)
	name, _ := doc.String("name")
	assert.Equal(t, "", name)
	media, ok := doc.Documents("media")
	require.True(t, ok)
	assert.Empty(t, media)

	require.NoError(t, Volume.Verify(doc, false, 0))

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	doc.Set("name", string(long))
	assert.Error(t, Volume.Verify(doc, false, 0))
}

func TestVerifyArrayRecursesWithChildFlags(t *testing.T) {
	vol := Volume.Create(VolumeInfoMedia)

	sub := Media.Create(MediaInfoStatus | MediaInfoSlot)
	vol.Set("media", []*document.Document{sub})
	assert.NoError(t, Volume.Verify(vol, false, 0))

	sub.Set("status", "broken")
	err := Volume.Verify(vol, false, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media[0]")
}

func TestColumnsSeqFirstAndArrayFieldsSkipped(t *testing.T) {
	cols := Volume.Columns(Volume.AllFlags(), "")
	assert.Equal(t, []string{"seq", "name", "status", "fill_threshold"}, cols)

	aliased := Site.Columns(SiteInfoName, "s")
	assert.Equal(t, []string{"s.seq", "s.name"}, aliased)
}

func TestInfoAllSelectsEverything(t *testing.T) {
	all := Site.Columns(SiteInfoAll, "")
	explicit := Site.Columns(Site.AllFlags(), "")
	assert.Equal(t, explicit, all)
}

func TestReadRecordMatchesColumns(t *testing.T) {
	flags := SiteInfoName | SiteInfoStatus
	row := []any{"123e4567-e89b-12d3-a456-426614174000", []byte("main"), "inactive"}

	doc := document.New()
	require.NoError(t, Site.ReadRecord(row, flags, nil, doc))

	seq, _ := doc.String(KeySeq)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", seq)
	name, _ := doc.String("name")
	assert.Equal(t, "main", name, "byte slices normalize to strings")
	status, _ := doc.String("status")
	assert.Equal(t, "inactive", status)

	assert.NoError(t, Site.Verify(doc, true, 0), "a read record verifies as persisted")
}

func TestColumnsAndReadRecordAgreeAcrossCatalog(t *testing.T) {
	// For every entity and every selectable flags value, ReadRecord must
	// accept exactly a row of Columns' width and land each position on
	// the field Columns promised, in order.
	const seq = "123e4567-e89b-12d3-a456-426614174000"
	for _, s := range Catalog() {
		masks := make([]uint64, 0, len(s.Groups)+2)
		for _, g := range s.Groups {
			masks = append(masks, g.Bit)
		}
		masks = append(masks, s.AllFlags())
		if s.InfoAll != 0 {
			masks = append(masks, s.InfoAll)
		}

		for _, flags := range masks {
			cols := s.Columns(flags, "")
			fields := s.columnFields(flags)
			require.Len(t, cols, len(fields)+1, "%s flags %#x", s.Name, flags)
			require.Equal(t, "seq", cols[0], "%s flags %#x", s.Name, flags)

			row := make([]any, len(cols))
			row[0] = seq
			for i := range fields {
				row[i+1] = fmt.Sprintf("value-%d", i)
			}
			doc := document.New()
			require.NoError(t, s.ReadRecord(row, flags, nil, doc),
				"%s flags %#x", s.Name, flags)
			for i, f := range fields {
				v, ok := doc.Get(f.Key)
				require.True(t, ok, "%s flags %#x key %s", s.Name, flags, f.Key)
				assert.Equal(t, fmt.Sprintf("value-%d", i), v,
					"%s flags %#x key %s", s.Name, flags, f.Key)
			}

			// Off-by-one rows in either direction are rejected.
			assert.Error(t, s.ReadRecord(row[:len(row)-1], flags, nil, document.New()),
				"%s flags %#x short row", s.Name, flags)
			assert.Error(t, s.ReadRecord(append(append([]any{}, row...), nil), flags, nil, document.New()),
				"%s flags %#x long row", s.Name, flags)
		}
	}
}

func TestReadRecordRejectsWrongArity(t *testing.T) {
	doc := document.New()
	err := Site.ReadRecord([]any{"seq-only"}, SiteInfoName|SiteInfoStatus, nil, doc)
	assert.Error(t, err)
}

func TestReadRecordParentRedirection(t *testing.T) {
	flags := MediaInfoSlot | MediaInfoVolume
	row := []any{
		"123e4567-e89b-12d3-a456-426614174000",
		int64(3),
		"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
	}

	var parent string
	doc := document.New()
	require.NoError(t, Media.ReadRecord(row, flags,
		map[string]*string{"volume_id": &parent}, doc))

	assert.Equal(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", parent)
	assert.False(t, doc.Has("volume_id"), "redirected keys leave the document")
	slot, _ := doc.Int("slot")
	assert.Equal(t, int64(3), slot)

	// The redirected group's bit is gone, so the document describes
	// exactly the keys it carries and still verifies.
	got, _ := doc.Uint(KeyFlags)
	assert.Equal(t, MediaInfoSlot, got)
	assert.NoError(t, Media.Verify(doc, true, 0))
}

func TestValuesMirrorsColumns(t *testing.T) {
	flags := SiteInfoName | SiteInfoStatus
	doc := Site.Create(flags)
	doc.Set(KeySeq, "123e4567-e89b-12d3-a456-426614174000")
	doc.Set("name", "main")

	values, err := Site.Values(doc, flags)
	require.NoError(t, err)
	require.Len(t, values, len(Site.Columns(flags, "")))
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", values[0])
	assert.Equal(t, "main", values[1])
	assert.Equal(t, "active", values[2])
}

func TestValuesRejectsMissingField(t *testing.T) {
	doc := Site.Create(SiteInfoName)
	doc.Delete("name")
	_, err := Site.Values(doc, SiteInfoName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrInvalid))
}

func TestSpecCheckCatchesBadTables(t *testing.T) {
	bad := &Spec{Name: "bad", Table: "bad", Groups: []Group{
		{Bit: 3, Name: "notpow2", Fields: []Field{{Key: "x", Column: "x"}}},
	}}
	assert.Error(t, bad.Check())

	dup := &Spec{Name: "dup", Table: "dup", Groups: []Group{
		{Bit: 1, Name: "a", Fields: []Field{{Key: "x", Column: "x"}}},
		{Bit: 2, Name: "b", Fields: []Field{{Key: "x", Column: "y"}}},
	}}
	assert.Error(t, dup.Check())

	reserved := &Spec{Name: "res", Table: "res", Groups: []Group{
		{Bit: 1, Name: "a", Fields: []Field{{Key: KeyFlags, Column: "f"}}},
	}}
	assert.Error(t, reserved.Check())
}

func TestLookupSpec(t *testing.T) {
	s, ok := LookupSpec("media")
	require.True(t, ok)
	assert.Equal(t, Media, s)

	_, ok = LookupSpec("nonesuch")
	assert.False(t, ok)
}
