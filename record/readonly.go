package record

import (
	"fmt"

	"github.com/positiverec/tuplego/endian"
	"github.com/positiverec/tuplego/errs"
	"github.com/positiverec/tuplego/tag"
)

// itemsFieldMask isolates the descriptor-count bits of the read-only
// header's low 16-bit half; the remaining 2 high bits are reserved for
// an ordered/unique hint.
const itemsFieldMask = 0x3FFF

// OrderedHint is set in a read-only header's reserved flag bits when the
// buffer it was taken from reported IsOrdered() true at Take time. It is
// advisory only: nothing re-validates it, and Validate does not depend
// on it.
const OrderedHint = 1

// ReadOnly is a length-prefixed, serialized tuple: a pure borrow of
// (bytes, length) over caller-owned memory It is freely
// copyable and safe to read from multiple goroutines concurrently.
type ReadOnly struct {
	data   []byte
	engine endian.EndianEngine
}

// NewReadOnly wraps data as a read-only tuple view without validating it;
// call Validate before trusting its contents.
func NewReadOnly(data []byte, engine endian.EndianEngine) ReadOnly {
	return ReadOnly{data: data, engine: engine}
}

// Bytes returns the underlying serialized bytes.
func (ro ReadOnly) Bytes() []byte { return ro.data }

func (ro ReadOnly) headerWord() uint32 {
	if len(ro.data) < 4 {
		return 0
	}
	return ro.engine.Uint32(ro.data[0:4])
}

// BruttoUnits returns the header's "brutto" field: total serialized units
// minus one.
func (ro ReadOnly) BruttoUnits() uint16 { return uint16(ro.headerWord() >> 16) }

// ItemCount returns the number of descriptor slots (dead or live).
func (ro ReadOnly) ItemCount() int { return int(uint16(ro.headerWord()) & itemsFieldMask) }

// Flags returns the header's reserved 2-bit hint field.
func (ro ReadOnly) Flags() uint8 { return uint8((uint16(ro.headerWord()) >> 14) & 0x3) }

func (ro ReadOnly) totalUnits() uint32 { return uint32(ro.BruttoUnits()) + 1 }

// view exposes ro through the same descriptor/payload accessors Buffer
// uses, since a read-only tuple's layout (header at unit 0, descriptors
// at [1, 1+items), payload at [1+items, total)) is isomorphic to a
// mutable buffer with head permanently pinned at 1.
func (ro ReadOnly) view() *Buffer {
	total := ro.totalUnits()
	items := uint32(ro.ItemCount())
	return &Buffer{
		raw:    ro.data,
		engine: ro.engine,
		head:   1,
		pivot:  1 + items,
		tail:   total,
		end:    total,
	}
}

// Validate walks descriptors right-to-left from pivot toward head,
// checking every structural invariant, and returns a
// short diagnostic reason on the first violation (empty string, true on
// success) — never an error, matching the reference implementation's
// "static diagnostic string" contract.
func (ro ReadOnly) Validate() (string, bool) {
	if len(ro.data) < 4 {
		return "buffer too small for header", false
	}
	total := ro.totalUnits()
	if uint32(len(ro.data)) != total*4 {
		return "declared length does not match buffer size", false
	}

	v := ro.view()
	if v.pivot > v.tail {
		return "descriptor count exceeds buffer size", false
	}
	if uint32(ro.ItemCount()) > tag.MaxFields {
		return "too many descriptor items", false
	}

	prevPayload := v.pivot
	var payloadUnits uint32

	for i := v.pivot; i > v.head; i-- {
		idx := i - 1
		tg := v.descTag(idx)
		if tg.IsDead() {
			continue
		}

		if tg.Col() > tag.MaxCols {
			return "column exceeds max_cols", false
		}

		typ := tg.Type()
		if typ&tag.ArrayFlag != 0 || typ == tag.Nested {
			return "array/nested fields not supported", false
		}

		if n, ok := typ.FixedUnits(); ok {
			if n == 0 {
				continue
			}
			payload := v.payloadUnit(idx)
			if payload < prevPayload {
				return "payload not in right-to-left order", false
			}
			if payload+uint32(n) > v.tail {
				return "fixed payload exceeds buffer end", false
			}
			prevPayload = payload
			payloadUnits += uint32(n)
			continue
		}

		payload := v.payloadUnit(idx)
		if payload < prevPayload {
			return "payload not in right-to-left order", false
		}

		switch typ {
		case tag.CString:
			n, ok := (Field{v, idx}).cstrLen()
			if !ok {
				return "c-string missing zero terminator", false
			}
			units := uint32((n + 1 + 3) / 4)
			if payload+units > v.tail {
				return "c-string payload exceeds buffer end", false
			}
			prevPayload = payload
			payloadUnits += units
		case tag.Opaque:
			if payload >= v.tail {
				return "opaque length word missing", false
			}
			lengthWord := v.engine.Uint32(v.payloadBytes(idx, 1))
			bruttoUnits := lengthWord >> 16
			byteLen := lengthWord & 0xFFFF
			units := (byteLen + 7) / 4
			if bruttoUnits+1 != units {
				return "opaque length prefix inconsistent", false
			}
			if payload+units > v.tail {
				return "opaque payload exceeds buffer end", false
			}
			prevPayload = payload
			payloadUnits += units
		default:
			return "unrecognized field type", false
		}
	}

	if payloadUnits != v.tail-v.pivot {
		return "payload accounting does not cover the declared payload region", false
	}

	return "", true
}

// Take runs Shrink and serializes b into its own backing array as a
// ReadOnly view over units[head-1, tail): the reserved unit just below
// head is reused for the header word, so no copy is needed.
func (b *Buffer) Take() (ReadOnly, error) {
	if err := b.Shrink(); err != nil {
		return ReadOnly{}, err
	}

	itemCount := b.pivot - b.head
	if itemCount > tag.MaxFields {
		return ReadOnly{}, errs.ErrInvalid
	}
	if b.head == 0 {
		return ReadOnly{}, errs.ErrInvalid
	}

	headerIdx := b.head - 1
	brutto := b.tail - headerIdx - 1
	if brutto > 0xFFFF {
		return ReadOnly{}, errs.ErrInvalid
	}

	var hint uint8
	if b.IsOrdered() {
		hint = OrderedHint
	}
	items := uint16(itemCount) | uint16(hint)<<14
	b.setDescWord(headerIdx, uint32(brutto)<<16|uint32(items))

	return ReadOnly{
		data:   b.raw[headerIdx*4 : b.tail*4],
		engine: b.engine,
	}, nil
}

// Fetch copies a validated read-only tuple into a fresh mutable buffer
// addressing dst, reserving room for moreItems additional descriptor
// slots and morePayload additional payload bytes beyond what ro already
// holds.
func Fetch(ro ReadOnly, dst []byte, moreItems, morePayload int) (*Buffer, error) {
	if reason, ok := ro.Validate(); !ok {
		return nil, fmt.Errorf("%s: %w", reason, errs.ErrInvalid)
	}

	src := ro.view()
	itemCount := int(src.pivot - src.head)
	payloadBytes := int(src.tail-src.pivot) * 4

	if Space(itemCount+moreItems, payloadBytes+morePayload) > len(dst) {
		return nil, errs.ErrNoSpace
	}

	buf, err := Init(dst, itemCount+moreItems, ro.engine)
	if err != nil {
		return nil, err
	}

	for i := src.pivot; i > src.head; i-- {
		idx := i - 1
		tg := src.descTag(idx)
		if tg.IsDead() {
			continue
		}

		typ := tg.Type()
		if typ == tag.Null || typ == tag.Uint16 {
			newIdx, err := buf.append(tg, 0)
			if err != nil {
				return nil, err
			}
			buf.setDesc(newIdx, tg, src.descOffset(idx))
			continue
		}

		units := (Field{src, idx}).Units()
		newIdx, err := buf.append(tg, units)
		if err != nil {
			return nil, err
		}
		copy(buf.payloadBytes(newIdx, units), src.payloadBytes(idx, units))
	}

	return buf, nil
}

// CheckAndSizeForFetch validates ro and reports the byte size a buffer
// would need to Fetch it with room for moreItems/morePayload of headroom,
// letting a caller size one allocation instead of guessing and retrying.
func CheckAndSizeForFetch(ro ReadOnly, moreItems, morePayload int) (int, error) {
	if reason, ok := ro.Validate(); !ok {
		return 0, fmt.Errorf("%s: %w", reason, errs.ErrInvalid)
	}
	v := ro.view()
	itemCount := int(v.pivot - v.head)
	payloadBytes := int(v.tail-v.pivot) * 4
	return Space(itemCount+moreItems, payloadBytes+morePayload), nil
}
