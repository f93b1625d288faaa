// Package key implements the canonical key composer and the
// three store comparators (§4.J) tuplego hands to the external key-value
// store at index-open time. It builds order-preserving byte strings from
// single field values or whole composite column lists, and never inspects
// a record's descriptor layout directly — callers supply already-decoded
// Go values (the record package's typed field accessors) or a
// FieldSource (see composite.go) to pull them from a mutable buffer.
package key

import (
	"math"

	"github.com/positiverec/tuplego/internal/hash"
)

// MaxKeyLen is the default maximum canonical key length before the
// prefix+hash-tail truncation rule (§4.I) applies. Stores may supply a
// smaller value via Params.
const MaxKeyLen = 56

// hashTailLen is the width, in bytes, of the 64-bit hash appended when a
// variable-length key is truncated.
const hashTailLen = 8

// EncodeUint16 appends the big-endian canonical encoding of v to dst.
func EncodeUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v>>8), byte(v))
}

// EncodeUint32 appends the big-endian canonical encoding of v to dst.
func EncodeUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// EncodeUint64 appends the big-endian canonical encoding of v to dst. This
// is also used for Datetime fields, whose 32.32 fixed-point bit pattern
// already sorts correctly as an unsigned 64-bit big-endian integer.
func EncodeUint64(dst []byte, v uint64) []byte {
	return append(dst,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// EncodeInt32 appends the canonical encoding of a signed 32-bit value:
// big-endian after flipping the sign bit, so negatives sort before
// non-negatives.
func EncodeInt32(dst []byte, v int32) []byte {
	return EncodeUint32(dst, uint32(v)^0x80000000)
}

// EncodeInt64 appends the canonical encoding of a signed 64-bit value.
func EncodeInt64(dst []byte, v int64) []byte {
	return EncodeUint64(dst, uint64(v)^0x8000000000000000)
}

// EncodeFloat32 appends the canonical encoding of an IEEE-754 float so that
// unsigned lexicographic order matches numeric order. Every NaN payload
// collapses to one designated sentinel bit pattern first, so any two NaNs
// produce identical keys.
func EncodeFloat32(dst []byte, v float32) []byte {
	return EncodeUint32(dst, orderedBits32(math.Float32bits(v)))
}

// EncodeFloat64 appends the canonical encoding of an IEEE-754 double,
// with the same NaN-collapsing rule as EncodeFloat32.
func EncodeFloat64(dst []byte, v float64) []byte {
	return EncodeUint64(dst, orderedBits64(math.Float64bits(v)))
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

// EncodeFixed appends a fixed-size blob verbatim; its bytes already compare
// correctly under unsigned memcmp.
func EncodeFixed(dst []byte, v []byte) []byte {
	return append(dst, v...)
}

// EncodeVariable appends a variable-length value (c-string or opaque bytes)
// to dst, applying the prefix+hash-tail truncation rule when v exceeds
// maxLen: the key becomes (prefix of maxLen-8 bytes) ‖ (64-bit hash of the
// complete original value). This bounds key size while preserving
// lexicographic order for distinct prefixes; values sharing a truncated
// prefix compare equal only in the hash, which is an equality-only
// collision risk documented at the call site (spec.md §4.I, §8 property 5).
func EncodeVariable(dst []byte, v []byte, maxLen int) []byte {
	if len(v) <= maxLen {
		return append(dst, v...)
	}
	h := hash.IDBytes(v)
	dst = append(dst, v[:maxLen-hashTailLen]...)
	return EncodeUint64(dst, h)
}

// Reverse returns a new slice holding v's bytes in reverse order, for
// "reversed" indexes (§4.I) that key on a value's salient suffix (e.g. DNS
// names). It is applied to the already-encoded canonical bytes rather than
// the pre-transform source value, which is equivalent for fixed-width
// numeric types and is the natural reading of "source bytes consumed in
// reverse order" for variable-length ones.
func Reverse(v []byte) []byte {
	out := make([]byte, len(v))
	for i, b := range v {
		out[len(v)-1-i] = b
	}
	return out
}

// UnorderedKey reduces an ordered canonical key to a fixed-width 64-bit
// hash, for indexes that only ever perform equality lookups (§4.I, §4.J).
func UnorderedKey(orderedKey []byte) []byte {
	return EncodeUint64(nil, hash.IDBytes(orderedKey))
}
