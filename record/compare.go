package record

import (
	"bytes"
	"math"

	"github.com/positiverec/tuplego/errs"
	"github.com/positiverec/tuplego/tag"
)

// Result is the five-valued comparator outcome It is a
// bitmask, not an enumeration, directly mirroring the reference
// implementation's fptu_lge: Equal and the three non-equal cases (Less,
// Greater, Incomparable) are disjoint bits, and NotEqual is their union,
// so callers can test "not equal" with a single mask rather than three
// comparisons.
type Result uint8

const (
	Incomparable Result = 1 << iota
	Equal
	Less
	Greater
)

// NotEqual is the disjunction of the three non-equal outcomes.
const NotEqual = Less | Greater | Incomparable

// String renders r for debugging and test failure messages; it does no
// I/O, matching the reference implementation's to_string overloads.
func (r Result) String() string {
	switch r {
	case Equal:
		return "equal"
	case Less:
		return "less"
	case Greater:
		return "greater"
	case Incomparable:
		return "incomparable"
	case NotEqual:
		return "not-equal"
	default:
		return "result(unknown)"
	}
}

// Compare returns the ordering relationship of a and b as five-valued
// Result, trying three paths in order:
//  1. identity: equal-length, byte-identical serialized forms are Equal.
//  2. ordered fast path: if both are tag-ordered, walk both descriptor
//     ranges in tandem.
//  3. slow path: materialize each side's sorted tag union and walk that
//     instead, pairing collections (repeated tags) by physical order.
func Compare(a, b ReadOnly) Result {
	if len(a.data) == len(b.data) && bytes.Equal(a.data, b.data) {
		return Equal
	}

	av, bv := a.view(), b.view()
	if av.IsOrdered() && bv.IsOrdered() {
		return compareOrdered(av, bv)
	}
	return compareTagUnion(av, bv)
}

// compareOrdered walks both buffers from head toward pivot — descending
// tag order — in lockstep. The side whose current tag is larger holds a
// field the other side lacks at this point in the scan and is Greater;
// exhausting one side first makes the other Greater.
func compareOrdered(a, b *Buffer) Result {
	i, j := a.head, b.head
	for i < a.pivot && j < b.pivot {
		if a.descTag(i).IsDead() {
			i++
			continue
		}
		if b.descTag(j).IsDead() {
			j++
			continue
		}

		ta, tb := a.descTag(i), b.descTag(j)
		if ta != tb {
			if ta > tb {
				return Greater
			}
			return Less
		}

		if r := compareFieldPayload(a, i, b, j, ta.Type()); r != Equal {
			return r
		}
		i++
		j++
	}

	aLeft := hasLiveField(a, i)
	bLeft := hasLiveField(b, j)
	switch {
	case aLeft && !bLeft:
		return Greater
	case bLeft && !aLeft:
		return Less
	default:
		return Equal
	}
}

func hasLiveField(b *Buffer, from uint32) bool {
	for i := from; i < b.pivot; i++ {
		if !b.descTag(i).IsDead() {
			return true
		}
	}
	return false
}

// compareTagUnion materializes each side's sorted, de-duplicated tag set
// and walks them from the largest tag down, so it agrees with
// compareOrdered's tie-break even though the two paths visit descriptors
// in opposite physical directions. Tags present on both sides may name a
// "collection" — several fields sharing one tag — which are paired by
// physical order within each side's documented
// same-multiset-different-order caveat.
func compareTagUnion(a, b *Buffer) Result {
	aTags := a.SortTags(make([]tag.Tag, a.Len()))
	bTags := b.SortTags(make([]tag.Tag, b.Len()))

	i, j := len(aTags)-1, len(bTags)-1
	for i >= 0 && j >= 0 {
		ta, tb := aTags[i], bTags[j]
		if ta != tb {
			if ta > tb {
				return Greater
			}
			return Less
		}

		aFields := collectByTag(a, ta)
		bFields := collectByTag(b, ta)
		n := len(aFields)
		if len(bFields) < n {
			n = len(bFields)
		}
		for k := 0; k < n; k++ {
			if r := compareFieldPayload(a, aFields[k], b, bFields[k], ta.Type()); r != Equal {
				return r
			}
		}
		if len(aFields) != len(bFields) {
			if len(aFields) > len(bFields) {
				return Greater
			}
			return Less
		}
		i--
		j--
	}

	switch {
	case i >= 0:
		return Greater
	case j >= 0:
		return Less
	default:
		return Equal
	}
}

// collectByTag gathers the unit indices of every live descriptor bearing
// tg, in physical scan order (head toward pivot).
func collectByTag(b *Buffer, tg tag.Tag) []uint32 {
	var out []uint32
	for i := b.head; i < b.pivot; i++ {
		if t := b.descTag(i); !t.IsDead() && t == tg {
			out = append(out, i)
		}
	}
	return out
}

// compareFieldPayload compares descriptor ai in a against bi in b, both
// already known to share typ. This is the same-type field comparator of
// spec.md §4.H's "sub" table.
func compareFieldPayload(a *Buffer, ai uint32, b *Buffer, bi uint32, typ tag.Type) Result {
	switch typ {
	case tag.Null:
		return Equal
	case tag.Uint16:
		return cmpUint64(uint64(a.descOffset(ai)), uint64(b.descOffset(bi)))
	case tag.Int32:
		fa, fb := Field{a, ai}, Field{b, bi}
		va, _ := fa.Int32()
		vb, _ := fb.Int32()
		return cmpInt64(int64(va), int64(vb))
	case tag.Uint32:
		fa, fb := Field{a, ai}, Field{b, bi}
		va, _ := fa.Uint32()
		vb, _ := fb.Uint32()
		return cmpUint64(uint64(va), uint64(vb))
	case tag.Float32:
		fa, fb := Field{a, ai}, Field{b, bi}
		va, _ := fa.Float32()
		vb, _ := fb.Float32()
		return cmpUint64(uint64(orderedBits32(math.Float32bits(va))), uint64(orderedBits32(math.Float32bits(vb))))
	case tag.Int64:
		fa, fb := Field{a, ai}, Field{b, bi}
		va, _ := fa.Int64()
		vb, _ := fb.Int64()
		return cmpInt64(va, vb)
	case tag.Uint64, tag.Datetime:
		fa, fb := Field{a, ai}, Field{b, bi}
		va, _ := fa.uint64Payload(typ)
		vb, _ := fb.uint64Payload(typ)
		return cmpUint64(va, vb)
	case tag.Float64:
		fa, fb := Field{a, ai}, Field{b, bi}
		va, _ := fa.Float64()
		vb, _ := fb.Float64()
		return cmpUint64(orderedBits64(math.Float64bits(va)), orderedBits64(math.Float64bits(vb)))
	case tag.Fixed96, tag.Fixed128, tag.Fixed160, tag.Fixed256:
		fa, fb := Field{a, ai}, Field{b, bi}
		da, _ := fa.Fixed()
		db, _ := fb.Fixed()
		return cmpBytesEqualLen(da, db)
	case tag.CString:
		fa, fb := Field{a, ai}, Field{b, bi}
		sa, _ := fa.CString()
		sb, _ := fb.CString()
		return cmpBytesWithLenTiebreak([]byte(sa), []byte(sb))
	case tag.Opaque:
		fa, fb := Field{a, ai}, Field{b, bi}
		oa, _ := fa.Opaque()
		ob, _ := fb.Opaque()
		return cmpBytesWithLenTiebreak(oa, ob)
	case tag.Nested:
		fa, fb := Field{a, ai}, Field{b, bi}
		na, err1 := fa.nestedReadOnly()
		nb, err2 := fb.nestedReadOnly()
		if err1 != nil || err2 != nil {
			return Incomparable
		}
		return Compare(na, nb)
	default:
		return Incomparable
	}
}

// nestedReadOnly views a Nested field's payload as its own serialized
// tuple, so the comparator can recurse into it without re-validating the
// outer record.
func (f Field) nestedReadOnly() (ReadOnly, error) {
	if f.Type() != tag.Nested {
		return ReadOnly{}, errs.ErrTypeMismatch
	}
	units := f.Units()
	return NewReadOnly(f.buf.payloadBytes(f.idx, units), f.buf.engine), nil
}

func cmpUint64(a, b uint64) Result {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func cmpInt64(a, b int64) Result {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func cmpBytesEqualLen(a, b []byte) Result {
	switch bytes.Compare(a, b) {
	case -1:
		return Less
	case 1:
		return Greater
	default:
		return Equal
	}
}

// cmpBytesWithLenTiebreak compares two byte strings unsigned-lexically;
// on an equal common prefix, the shorter string is Less.
func cmpBytesWithLenTiebreak(a, b []byte) Result {
	switch bytes.Compare(a, b) {
	case -1:
		return Less
	case 1:
		return Greater
	default:
		return Equal
	}
}

// orderedBits64 remaps a float64 bit pattern so unsigned order matches
// numeric order: non-negative values get their sign bit set, negative
// values are fully inverted. Every NaN payload collapses to one
// designated sentinel first, so any two NaNs compare Equal — the
// resolution of the NaN open question also used by package key's
// canonical key encoding (duplicated here rather than imported, since
// record and key intentionally share no dependency edge).
func orderedBits64(bits uint64) uint64 {
	const nanSentinel = 0x7FF8000000000000
	const signBit = 0x8000000000000000
	if isNaN64(bits) {
		bits = nanSentinel
	}
	if bits&signBit == 0 {
		return bits | signBit
	}
	return ^bits
}

func isNaN64(bits uint64) bool {
	const expMask = 0x7FF0000000000000
	const fracMask = 0x000FFFFFFFFFFFFF
	return bits&expMask == expMask && bits&fracMask != 0
}

func orderedBits32(bits uint32) uint32 {
	const nanSentinel = 0x7FC00000
	const signBit = 0x80000000
	if isNaN32(bits) {
		bits = nanSentinel
	}
	if bits&signBit == 0 {
		return bits | signBit
	}
	return ^bits
}

func isNaN32(bits uint32) bool {
	const expMask = 0x7F800000
	const fracMask = 0x007FFFFF
	return bits&expMask == expMask && bits&fracMask != 0
}

// CompareFixed compares a fixed-size blob field against an external
// value without constructing a second record — useful for evaluating a
// filter against one field at a time (spec.md's original exposes the
// per-type equivalents as free functions against a raw value; see
// SPEC_FULL.md §7.3).
func (f Field) CompareFixed(value []byte) (Result, error) {
	data, err := f.Fixed()
	if err != nil {
		return Incomparable, err
	}
	if len(value) != len(data) {
		return Incomparable, errs.ErrDataLenMismatch
	}
	return cmpBytesEqualLen(data, value), nil
}

// CompareOpaque compares an opaque field's exact payload against value.
func (f Field) CompareOpaque(value []byte) (Result, error) {
	data, err := f.Opaque()
	if err != nil {
		return Incomparable, err
	}
	return cmpBytesWithLenTiebreak(data, value), nil
}

// CompareCString compares a c-string field's value against value.
func (f Field) CompareCString(value string) (Result, error) {
	s, err := f.CString()
	if err != nil {
		return Incomparable, err
	}
	return cmpBytesWithLenTiebreak([]byte(s), []byte(value)), nil
}
