package record_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/positiverec/tuplego/endian"
	"github.com/positiverec/tuplego/record"
	"github.com/positiverec/tuplego/tag"
)

func takeOrdered(t *testing.T, fill func(*record.Buffer)) record.ReadOnly {
	t.Helper()
	buf := newBuffer(t, 8, 128)
	fill(buf)
	require.True(t, buf.IsOrdered())
	ro, err := buf.Take()
	require.NoError(t, err)
	return ro
}

func TestCompare_IdenticalBytesAreEqual(t *testing.T) {
	a := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
		require.NoError(t, b.UpsertInt32(2, 10))
	})
	c := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
		require.NoError(t, b.UpsertInt32(2, 10))
	})
	require.Equal(t, record.Equal, record.Compare(a, c))
}

func TestCompare_OrderedFastPath_FieldValueDiffers(t *testing.T) {
	a := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
	})
	c := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 6))
	})
	require.Equal(t, record.Less, record.Compare(a, c))
	require.Equal(t, record.Greater, record.Compare(c, a))
}

func TestCompare_OrderedFastPath_ExtraFieldIsGreater(t *testing.T) {
	a := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
		require.NoError(t, b.UpsertInt32(2, 1))
	})
	c := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
	})
	require.Equal(t, record.Greater, record.Compare(a, c))
	require.Equal(t, record.Less, record.Compare(c, a))
}

func TestCompare_SlowPath_UnorderedStillAgreesWithOrderedPath(t *testing.T) {
	ordered := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
		require.NoError(t, b.UpsertInt32(2, 1))
	})

	unordered := newBuffer(t, 8, 128)
	require.NoError(t, unordered.UpsertInt32(2, 1))
	require.NoError(t, unordered.UpsertInt32(1, 5))
	require.False(t, unordered.IsOrdered())
	ro2, err := unordered.Take()
	require.NoError(t, err)

	require.Equal(t, record.Equal, record.Compare(ordered, ro2))
}

func TestCompare_DifferentTypesSameColumnAreNotEqual(t *testing.T) {
	a := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertInt32(1, 5))
	})
	c := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertUint32(1, 5))
	})
	require.NotEqual(t, record.Equal, record.Compare(a, c))
}

func TestCompare_FloatNaNSortsAboveAnyOtherValue(t *testing.T) {
	nan := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertFloat64(1, nanFloat()))
	})
	other := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertFloat64(1, 1.0))
	})
	// NaN's canonical ordered encoding sorts as a fixed sentinel above
	// every non-NaN value, so the field compares strictly Greater here;
	// it is Equal only to another NaN (see TestCompare_NaNEqualsNaN).
	require.Equal(t, record.Greater, record.Compare(nan, other))
}

func TestCompare_NaNEqualsNaN(t *testing.T) {
	nan1 := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertFloat64(1, nanFloat()))
	})
	nan2 := takeOrdered(t, func(b *record.Buffer) {
		require.NoError(t, b.UpsertFloat64(1, nanFloat()))
	})
	require.Equal(t, record.Equal, record.Compare(nan1, nan2))
}

func TestCompare_IdentityPath_SingleOpaqueFieldEquality(t *testing.T) {
	a := newBuffer(t, 8, 128)
	require.NoError(t, a.UpsertOpaque(5, []byte{1}))
	buf := newBuffer(t, 8, 128)
	require.NoError(t, buf.UpsertOpaque(5, []byte{1}))
	roA, err := a.Take()
	require.NoError(t, err)
	roB, err := buf.Take()
	require.NoError(t, err)
	require.Equal(t, record.Equal, record.Compare(roA, roB))
}

// TestCompare_CollectionTieBreak exercises the genuine "collection" case
// (two live fields sharing one tag) that only arises from externally
// sourced descriptors, not from this package's own emplace-based Upsert
// API: it hand-builds a read-only tuple whose two Opaque(5) fields both
// carry the same value as a single-field record's Opaque(5), confirming
// the side with more fields at a shared tag is Greater once the shared
// prefix pairs off Equal (the same rule compareOrdered uses when one
// side runs out of fields first).
func TestCompare_CollectionTieBreak(t *testing.T) {
	pair := buildDuplicateTagReadOnly(t, []byte{9}, []byte{9})

	single := newBuffer(t, 8, 128)
	require.NoError(t, single.UpsertOpaque(5, []byte{9}))
	roSingle, err := single.Take()
	require.NoError(t, err)

	require.Equal(t, record.Greater, record.Compare(pair, roSingle))
	require.Equal(t, record.Less, record.Compare(roSingle, pair))
}

// buildDuplicateTagReadOnly hand-assembles a minimal read-only tuple with
// two Opaque descriptors at column 5, each holding one of the given
// single-byte payloads, bypassing Upsert's emplace dedup entirely. Each
// Opaque field needs 2 payload units (a length word plus data/padding):
// the descriptor closer to pivot (unit 2) is processed first by
// Validate's right-to-left scan, so its payload must start immediately
// at pivot (unit 3); the other descriptor's (unit 1) payload follows at
// unit 5.
func buildDuplicateTagReadOnly(t *testing.T, valAtPivotSide, valAtHeadSide []byte) record.ReadOnly {
	t.Helper()
	tg, err := tag.Pack(5, tag.Opaque)
	require.NoError(t, err)

	const payloadUnitsPerField = 2
	const total = 1 + 2 + 2*payloadUnitsPerField // header + 2 descriptors + 2 payloads
	raw := make([]byte, total*4)
	engine := endian.GetLittleEndianEngine()

	putDesc := func(descUnit uint32, offsetUnits uint16) {
		engine.PutUint32(raw[descUnit*4:], uint32(tg)|uint32(offsetUnits)<<16)
	}
	putOpaquePayload := func(unit uint32, value []byte) {
		lengthWord := uint32(payloadUnitsPerField-1)<<16 | uint32(len(value))
		engine.PutUint32(raw[unit*4:], lengthWord)
		copy(raw[unit*4+4:], value)
	}

	putDesc(2, 1) // payload at unit 2+1=3
	putOpaquePayload(3, valAtPivotSide)
	putDesc(1, 4) // payload at unit 1+4=5
	putOpaquePayload(5, valAtHeadSide)

	items := uint16(2)
	brutto := uint16(total - 1)
	engine.PutUint32(raw[0:], uint32(brutto)<<16|uint32(items))

	return record.NewReadOnly(raw, engine)
}

func TestField_CompareCString(t *testing.T) {
	buf := newBuffer(t, 4, 64)
	require.NoError(t, buf.UpsertCString(1, "abc"))
	f, ok := buf.First(1, int32(tag.CString))
	require.True(t, ok)

	r, err := f.CompareCString("abd")
	require.NoError(t, err)
	require.Equal(t, record.Less, r)

	r, err = f.CompareCString("ab")
	require.NoError(t, err)
	require.Equal(t, record.Greater, r)
}

func TestField_CompareOpaque(t *testing.T) {
	buf := newBuffer(t, 4, 64)
	require.NoError(t, buf.UpsertOpaque(1, []byte{1, 2, 3}))
	f, ok := buf.First(1, int32(tag.Opaque))
	require.True(t, ok)

	r, err := f.CompareOpaque([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, record.Equal, r)
}

func TestField_CompareFixed_LengthMismatchErrors(t *testing.T) {
	buf := newBuffer(t, 4, 64)
	require.NoError(t, buf.UpsertFixed(1, tag.Fixed96, make([]byte, 12)))
	f, ok := buf.First(1, int32(tag.Fixed96))
	require.True(t, ok)

	_, err := f.CompareFixed(make([]byte, 11))
	require.Error(t, err)
}

func TestResult_StringRendersAllValues(t *testing.T) {
	require.Equal(t, "equal", record.Equal.String())
	require.Equal(t, "less", record.Less.String())
	require.Equal(t, "greater", record.Greater.String())
	require.Equal(t, "incomparable", record.Incomparable.String())
	require.Equal(t, "not-equal", record.NotEqual.String())
}

func nanFloat() float64 {
	var zero float64
	return zero / zero
}
