// Package record implements the mutable and read-only tuple forms: the
// field descriptor layout, the head/pivot/tail/junk buffer discipline,
// the mutation primitives built on it, iteration, the tag sorter, and the
// five-valued record comparator.
//
// Unlike the read-only form (see ReadOnly), the mutable Buffer's
// bookkeeping (head, pivot, tail, end, junk) is *not* byte-exact — it is
// kept as ordinary Go struct fields rather than serialized into the
// caller's byte slice, the same choice pool.ByteBuffer makes for its
// length/cap bookkeeping: accounting that never needs to cross a wire
// stays in the Go struct, not the buffer. Only the payload units
// themselves — descriptors and field data — live inside the
// caller-supplied buffer, which remains the sole allocator; record never
// allocates heap memory for a buffer already large enough for the
// request.
package record

import (
	"math"

	"github.com/positiverec/tuplego/endian"
	"github.com/positiverec/tuplego/errs"
	"github.com/positiverec/tuplego/tag"
)

// deadOffset is the sentinel offset stored in a null-typed descriptor,
// which carries no external payload.
const deadOffset = 0xFFFF

// Buffer is the mutable, read-write tuple form described in spec.md §3/§4.C.
// It owns no memory: raw is a byte slice supplied by the caller, addressed
// as a virtual array of 4-byte units. Descriptors occupy units
// [head, pivot) and grow downward as fields are appended; payload occupies
// units [pivot, tail) and grows upward. Unit 0 never holds a descriptor or
// payload, so that head can never underflow without being detected first;
// Take writes the read-only header word into the unit just below head,
// which is unit 0 once every reserved slot is used.
type Buffer struct {
	raw    []byte
	engine endian.EndianEngine

	head, pivot, tail, end uint32
	junk                   uint32
}

// Space returns the number of bytes a buffer needs to hold up to items
// descriptor slots and dataBytes of payload without reallocation. Callers
// size their allocation with this before calling Init.
func Space(items, dataBytes int) int {
	units := 1 + items + (dataBytes+3)/4
	return units * 4
}

// Init prepares raw as an empty mutable buffer, reserving room for
// reserveItems descriptor slots before any payload is written. It fails
// with errs.ErrInvalid if raw is too small to honor the reservation or
// exceeds the format's maximum tuple size.
func Init(raw []byte, reserveItems int, engine endian.EndianEngine) (*Buffer, error) {
	if raw == nil || engine == nil {
		return nil, errs.ErrInvalid
	}
	if reserveItems < 0 || reserveItems > tag.MaxFields {
		return nil, errs.ErrInvalid
	}

	totalUnits := uint32(len(raw) / 4)
	if totalUnits == 0 {
		return nil, errs.ErrInvalid
	}
	if totalUnits-1 > tag.MaxTupleBytes/4 {
		return nil, errs.ErrInvalid
	}

	start := uint32(reserveItems) + 1
	if start > totalUnits {
		return nil, errs.ErrInvalid
	}

	return &Buffer{
		raw:    raw,
		engine: engine,
		head:   start,
		pivot:  start,
		tail:   start,
		end:    totalUnits,
		junk:   0,
	}, nil
}

// SpaceForItems returns the number of additional descriptor slots the
// buffer can accept before head would underflow its reserved floor.
func (b *Buffer) SpaceForItems() int { return int(b.head - 1) }

// SpaceForData returns the number of payload bytes the buffer can still
// accept before tail would reach end.
func (b *Buffer) SpaceForData() int { return int(b.end-b.tail) * 4 }

// JunkBytes returns the number of bytes presently tied up in dead
// descriptors and their unreclaimed payload.
func (b *Buffer) JunkBytes() int { return int(b.junk) * 4 }

// Len returns the number of live (non-dead) descriptors in the buffer.
func (b *Buffer) Len() int {
	n := 0
	for i := b.head; i < b.pivot; i++ {
		if !b.descTag(i).IsDead() {
			n++
		}
	}
	return n
}

func (b *Buffer) descWord(i uint32) uint32 {
	return b.engine.Uint32(b.raw[i*4:])
}

func (b *Buffer) setDescWord(i uint32, w uint32) {
	b.engine.PutUint32(b.raw[i*4:], w)
}

func (b *Buffer) descTag(i uint32) tag.Tag {
	return tag.Tag(b.descWord(i) & 0xFFFF)
}

func (b *Buffer) descOffset(i uint32) uint16 {
	return uint16(b.descWord(i) >> 16)
}

func (b *Buffer) setDesc(i uint32, tg tag.Tag, offset uint16) {
	b.setDescWord(i, uint32(tg)|uint32(offset)<<16)
}

// payloadUnit returns the unit index where descriptor i's payload begins.
// The offset field is a forward distance in units from the descriptor's
// own position
func (b *Buffer) payloadUnit(i uint32) uint32 {
	return i + uint32(b.descOffset(i))
}

func (b *Buffer) payloadBytes(i, units uint32) []byte {
	start := b.payloadUnit(i) * 4
	return b.raw[start : start+units*4]
}

// Field is a read view over one descriptor. It is produced by lookups and
// iteration; O(1) to obtain, and its variable-length accessors return
// slices into the buffer's own memory rather than copies.
type Field struct {
	buf *Buffer
	idx uint32
}

// Tag returns the field's packed (column, type) tag.
func (f Field) Tag() tag.Tag { return f.buf.descTag(f.idx) }

// Col returns the field's column number.
func (f Field) Col() uint16 { return f.Tag().Col() }

// Type returns the field's type code.
func (f Field) Type() tag.Type { return f.Tag().Type() }

// IsDead reports whether this descriptor has been erased.
func (f Field) IsDead() bool { return f.Tag().IsDead() }

// Units returns the field's payload length in 4-byte units, excluding the
// descriptor word itself. For c-strings this scans for the terminator, so
// it is the one accessor in this type that is not O(1).
func (f Field) Units() uint32 {
	typ := f.Type()
	if n, ok := typ.FixedUnits(); ok {
		return uint32(n)
	}
	switch typ {
	case tag.Null:
		return 0
	case tag.Opaque:
		word := f.buf.engine.Uint32(f.buf.payloadBytes(f.idx, 1))
		brutto := word >> 16
		return brutto + 1
	case tag.CString:
		n, _ := f.cstrLen()
		return uint32((n + 1 + 3) / 4)
	default:
		return 0
	}
}

func (f Field) cstrLen() (int, bool) {
	start := f.buf.payloadUnit(f.idx) * 4
	limit := f.buf.tail * 4
	for i := start; i < limit; i++ {
		if f.buf.raw[i] == 0 {
			return int(i - start), true
		}
	}
	return 0, false
}

// Uint16 returns the inline value of a Uint16 field (no external payload).
func (f Field) Uint16() (uint16, error) {
	if f.Type() != tag.Uint16 {
		return 0, errs.ErrTypeMismatch
	}
	return f.buf.descOffset(f.idx), nil
}

// Int32 returns the payload of an Int32 field.
func (f Field) Int32() (int32, error) {
	u, err := f.uint32Payload(tag.Int32)
	return int32(u), err
}

// Uint32 returns the payload of a Uint32 field.
func (f Field) Uint32() (uint32, error) {
	return f.uint32Payload(tag.Uint32)
}

// Float32 returns the payload of a Float32 field.
func (f Field) Float32() (float32, error) {
	u, err := f.uint32Payload(tag.Float32)
	return math.Float32frombits(u), err
}

func (f Field) uint32Payload(want tag.Type) (uint32, error) {
	if f.Type() != want {
		return 0, errs.ErrTypeMismatch
	}
	return f.buf.engine.Uint32(f.buf.payloadBytes(f.idx, 1)), nil
}

// Int64 returns the payload of an Int64 field.
func (f Field) Int64() (int64, error) {
	u, err := f.uint64Payload(tag.Int64)
	return int64(u), err
}

// Uint64 returns the payload of a Uint64 field.
func (f Field) Uint64() (uint64, error) {
	return f.uint64Payload(tag.Uint64)
}

// Float64 returns the payload of a Float64 field.
func (f Field) Float64() (float64, error) {
	u, err := f.uint64Payload(tag.Float64)
	return math.Float64frombits(u), err
}

// DatetimeRaw returns the raw 32.32 fixed-point payload of a Datetime
// field; see package timeval for decoding it into wall-clock components.
func (f Field) DatetimeRaw() (uint64, error) {
	return f.uint64Payload(tag.Datetime)
}

func (f Field) uint64Payload(want tag.Type) (uint64, error) {
	if f.Type() != want {
		return 0, errs.ErrTypeMismatch
	}
	return f.buf.engine.Uint64(f.buf.payloadBytes(f.idx, 2)), nil
}

// Fixed returns the raw bytes of a fixed-size blob field (Fixed96/128/160/256).
func (f Field) Fixed() ([]byte, error) {
	n, ok := f.Type().FixedBytes()
	if !ok || f.Type() < tag.Fixed96 || f.Type() > tag.Fixed256 {
		return nil, errs.ErrTypeMismatch
	}
	return f.buf.payloadBytes(f.idx, uint32(n/4)), nil
}

// CString returns a c-string field's value, excluding the terminator.
func (f Field) CString() (string, error) {
	if f.Type() != tag.CString {
		return "", errs.ErrTypeMismatch
	}
	n, ok := f.cstrLen()
	if !ok {
		return "", errs.ErrInvalid
	}
	start := f.buf.payloadUnit(f.idx) * 4
	return string(f.buf.raw[start : start+uint32(n)]), nil
}

// Opaque returns an opaque byte-string field's exact payload (excluding
// the length-prefix word and any rounding padding).
func (f Field) Opaque() ([]byte, error) {
	if f.Type() != tag.Opaque {
		return nil, errs.ErrTypeMismatch
	}
	lengthWord := f.buf.payloadBytes(f.idx, 1)
	bytes := f.buf.engine.Uint32(lengthWord) & 0xFFFF
	start := f.buf.payloadUnit(f.idx)*4 + 4
	return f.buf.raw[start : start+bytes], nil
}
