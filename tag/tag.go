// Package tag implements the type-and-column tag algebra that every other
// tuplego package builds on: packing a column number and a type code into
// the 16-bit value stored in each field descriptor, and the handful of
// predicates (dead-slot detection, fixed/variable classification,
// type-or-filter matching) those descriptors are checked against.
//
// Layout (must not change between implementations): bits [0..4] hold the
// type code, bit 5 is reserved, bits [6..15] hold the column number. Column
// 1023 is the dead-descriptor sentinel.
package tag

import "github.com/positiverec/tuplego/errs"

// Tag is a packed (column, type) pair as stored in a field descriptor.
type Tag uint16

// Type is one of the sixteen base field types, optionally OR'd with
// ArrayFlag to denote an array-of-T. The pseudo-type filter masks used by
// type-or-filter arguments are not Type values: they are int32 arguments
// with FilterBit set (see AnyInt, AnyUint, AnyFloat).
type Type uint8

const (
	Null      Type = 0
	Uint16    Type = 1
	Int32     Type = 2
	Uint32    Type = 3
	Float32   Type = 4
	Int64     Type = 5
	Uint64    Type = 6
	Float64   Type = 7
	Datetime  Type = 8
	Fixed96   Type = 9
	Fixed128  Type = 10
	Fixed160  Type = 11
	Fixed256  Type = 12
	CString   Type = 13
	Opaque    Type = 14
	Nested    Type = 15
	ArrayFlag Type = 16
)

const (
	// TypeBits is the width of the type field within a tag.
	TypeBits = 5
	// ReserveBits is the width of the reserved bit between type and column.
	ReserveBits = 1
	// ColShift is the bit position where the column field begins.
	ColShift = TypeBits + ReserveBits
	// ColBits is the width of the column field.
	ColBits = 16 - ColShift

	// TypeMask isolates the type bits of a packed tag.
	TypeMask = (1 << TypeBits) - 1
	// MaxTypeCode is the largest representable type code (5 bits).
	MaxTypeCode = (1 << TypeBits) - 1

	// ColDead is the column sentinel marking a descriptor as dead.
	ColDead = (1 << ColBits) - 1
	// MaxCols is the largest column number a live descriptor may use.
	MaxCols = ColDead - 1

	// MaxFields caps the number of descriptor slots a single record may hold.
	MaxFields = 1023

	// MaxFieldBytes caps the byte length of any single field's payload.
	MaxFieldBytes = 65535
	// MaxTupleBytes caps the serialised byte length of an entire record.
	MaxTupleBytes = MaxFieldBytes * 4

	// FilterBit, when set in a type-or-filter argument, means the low 16
	// bits are a bitmask over type codes rather than a single type to
	// match exactly.
	FilterBit = 1 << 16

	// Any matches every type during iteration/lookup.
	Any int32 = -1
)

// AnyInt, AnyUint and AnyFloat are ready-made filter masks matching the
// integer, unsigned-integer and floating-point type families respectively.
const (
	AnyInt   = FilterBit | (1 << Int32) | (1 << Int64)
	AnyUint  = FilterBit | (1 << Uint16) | (1 << Uint32) | (1 << Uint64)
	AnyFloat = FilterBit | (1 << Float32) | (1 << Float64)
)

// fixedBytes maps a fixed-size type code to its payload length in bytes.
// Variable-length types (CString, Opaque, Nested, and any ArrayFlag
// combination) are not present here; callers must check IsFixed first.
var fixedBytes = [...]uint8{
	Null:     0,
	Uint16:   0,
	Int32:    4,
	Uint32:   4,
	Float32:  4,
	Int64:    8,
	Uint64:   8,
	Float64:  8,
	Datetime: 8,
	Fixed96:  12,
	Fixed128: 16,
	Fixed160: 20,
	Fixed256: 32,
}

// Pack combines a column number and a type code into a tag. It returns
// errs.ErrInvalid if either operand exceeds its field width.
func Pack(col uint16, typ Type) (Tag, error) {
	if col > MaxCols {
		return 0, errs.ErrInvalid
	}
	if typ > MaxTypeCode {
		return 0, errs.ErrInvalid
	}
	return Tag(typ) | Tag(col)<<ColShift, nil
}

// PackDead packs a descriptor tag carrying the dead-column sentinel; the
// type code is preserved so find_dead can still match on recorded payload
// shape, but Col always reads back as ColDead.
func PackDead(typ Type) Tag {
	return Tag(typ) | Tag(ColDead)<<ColShift
}

// Col returns the column number packed into t.
func (t Tag) Col() uint16 {
	return uint16(t >> ColShift)
}

// Type returns the type code packed into t.
func (t Tag) Type() Type {
	return Type(t & TypeMask)
}

// IsDead reports whether t carries the dead-column sentinel.
func (t Tag) IsDead() bool {
	return t >= Tag(ColDead)<<ColShift
}

// MarkDead returns t with its column field forced to the dead sentinel.
// OR-ing the all-ones column mask into the tag sets every column bit
// regardless of its previous value, so the result always reads back as
// dead — this is how erase() retires a descriptor in place.
func MarkDead(t Tag) Tag {
	return t | Tag(ColDead)<<ColShift
}

// IsFixed reports whether typ has a statically known payload size.
func (typ Type) IsFixed() bool {
	return typ < CString
}

// FixedBytes returns typ's payload size in bytes and true, or (0, false)
// if typ is variable-length.
func (typ Type) FixedBytes() (int, bool) {
	if !typ.IsFixed() {
		return 0, false
	}
	return int(fixedBytes[typ]), true
}

// FixedUnits returns typ's payload size in 4-byte units and true, or
// (0, false) if typ is variable-length.
func (typ Type) FixedUnits() (int, bool) {
	n, ok := typ.FixedBytes()
	if !ok {
		return 0, false
	}
	return n / 4, true
}

// ElemSize returns the minimum payload size in bytes implied by t's type:
// the fixed size for fixed types, or 4 for variable types (opaque, string,
// and nested payloads always carry at least a 4-byte length or terminator
// word at their start).
func (t Tag) ElemSize() int {
	if n, ok := t.Type().FixedBytes(); ok {
		return n
	}
	return 4
}

// MatchFixedSize reports whether t names a fixed type whose unit count is
// exactly units, letting a caller check a size argument against the type
// it is packing. It is false for every variable-length type.
func (t Tag) MatchFixedSize(units int) bool {
	n, ok := t.Type().FixedUnits()
	return ok && n == units
}

// Match reports whether t belongs to column col and satisfies
// typeOrFilter: either an exact type-code match, or — when FilterBit is
// set — membership in the bitmask formed by the low 16 bits.
func Match(t Tag, col uint16, typeOrFilter int32) bool {
	if t.Col() != col {
		return false
	}
	if typeOrFilter == Any {
		return true
	}
	if typeOrFilter&FilterBit != 0 {
		return typeOrFilter&(1<<uint(t.Type())) != 0
	}
	return Type(typeOrFilter) == t.Type()
}
