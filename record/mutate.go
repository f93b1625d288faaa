package record

import (
	"math"

	"github.com/positiverec/tuplego/errs"
	"github.com/positiverec/tuplego/tag"
)

// findDead scans [head, pivot) for a dead descriptor whose recorded
// payload size equals units, so it can be recycled in place.
func (b *Buffer) findDead(units uint32) (uint32, bool) {
	for i := b.head; i < b.pivot; i++ {
		if b.descTag(i).IsDead() {
			if (Field{b, i}).Units() == units {
				return i, true
			}
		}
	}
	return 0, false
}

// append claims a new descriptor slot for tg, recycling a dead slot of the
// exact size first. It fails with errs.ErrNoSpace if there is no room for
// a new slot plus units of payload.
func (b *Buffer) append(tg tag.Tag, units uint32) (uint32, error) {
	if idx, ok := b.findDead(units); ok {
		offset := b.descOffset(idx)
		b.setDesc(idx, tg, offset)
		b.junk -= 1 + units
		return idx, nil
	}

	if b.head < 2 || b.end-b.tail < units {
		return 0, errs.ErrNoSpace
	}

	b.head--
	idx := b.head
	if units > 0 {
		offset := uint16(b.tail - idx)
		b.setDesc(idx, tg, offset)
		b.tail += units
	} else {
		b.setDesc(idx, tg, deadOffset)
	}
	return idx, nil
}

// lookupCT returns the first live descriptor whose full tag matches tg
// exactly, scanning from head (most recently appended) toward pivot.
func (b *Buffer) lookupCT(tg tag.Tag) (uint32, bool) {
	for i := b.head; i < b.pivot; i++ {
		if b.descTag(i) == tg {
			return i, true
		}
	}
	return 0, false
}

// emplace is the general upsert primitive: reuse an existing field of the
// same tag and size in place, erase-then-append on a size change (rolling
// back cleanly on NOSPACE), or append fresh.
func (b *Buffer) emplace(tg tag.Tag, units uint32) (uint32, error) {
	idx, ok := b.lookupCT(tg)
	if !ok {
		return b.append(tg, units)
	}

	if (Field{b, idx}).Units() == units {
		return idx, nil
	}

	snapHead, snapPivot, snapTail, snapJunk := b.head, b.pivot, b.tail, b.junk
	origWord := b.descWord(idx)

	b.erase(idx)
	newIdx, err := b.append(tg, units)
	if err != nil {
		b.head, b.pivot, b.tail, b.junk = snapHead, snapPivot, snapTail, snapJunk
		b.setDescWord(idx, origWord)
		return 0, err
	}
	return newIdx, nil
}

// erase marks idx dead and folds its unit cost into junk, reclaiming
// directly at the head boundary when possible and cascading through any
// further boundary-adjacent dead descriptors it exposes.
func (b *Buffer) erase(idx uint32) {
	units := (Field{b, idx}).Units()
	offset := b.descOffset(idx)
	b.setDesc(idx, tag.MarkDead(b.descTag(idx)), offset)
	b.junk += 1 + units

	for b.head < b.pivot {
		hf := Field{b, b.head}
		if !hf.Tag().IsDead() {
			break
		}
		hUnits := hf.Units()
		if hUnits > 0 && b.payloadUnit(b.head)+hUnits != b.tail {
			break
		}
		b.head++
		if hUnits > 0 {
			b.tail -= hUnits
		}
		b.junk -= 1 + hUnits
	}
}

// EraseByColumn erases every live field matching col and typeOrFilter
// (see tag.Match), returning the number of fields removed.
func (b *Buffer) EraseByColumn(col uint16, typeOrFilter int32) int {
	count := 0
	for i := b.head; i < b.pivot; i++ {
		tg := b.descTag(i)
		if tg.IsDead() {
			continue
		}
		if tag.Match(tg, col, typeOrFilter) {
			b.erase(i)
			count++
		}
	}
	return count
}

// meshState reports whether the descriptor range is already tag-ordered
// and whether it carries a "mesh" payload layout: a live variable/wide
// field whose payload address is not monotonically decreasing as the
// descriptor index decreases. A mesh can only arise from an ordered-write
// variant outside this package's mutation primitives; Shrink refuses to
// compact one rather than risk corrupting it.
func (b *Buffer) meshState() (ordered, mesh, hasJunk bool) {
	ordered = true
	prevTag := tag.Tag(0)
	prevPayload := b.pivot // "address" expressed in unit index; payload region starts rising from pivot
	first := true

	for i := b.pivot; i > b.head; i-- {
		idx := i - 1
		tg := b.descTag(idx)
		if !first && tg < prevTag {
			ordered = false
		}
		prevTag = tg
		first = false

		if tg.IsDead() {
			hasJunk = true
			continue
		}
		if tg.Type() > tag.Uint16 {
			payload := b.payloadUnit(idx)
			if payload < prevPayload {
				mesh = true
			}
			prevPayload = payload
		}
	}
	return ordered, mesh, hasJunk
}

// Shrink compacts away dead descriptors and reclaims their payload,
// resetting junk to zero. It is a no-op if there is nothing to reclaim,
// and returns errs.ErrInvalid without modifying the buffer if the payload
// layout is a mesh (see meshState) — a permanent refusal, matching the
// reference implementation's "ordered/mesh tuples NOT yet supported"
// assertion.
func (b *Buffer) Shrink() error {
	_, mesh, hasJunk := b.meshState()
	if !hasJunk {
		return nil
	}
	if mesh {
		return errs.ErrInvalid
	}

	shift := uint32(0)
	t := b.pivot
	for i := b.pivot; i > b.head; i-- {
		idx := i - 1
		tg := b.descTag(idx)
		if tg.IsDead() {
			shift++
			continue
		}

		destIdx := idx + shift
		if tg.Type() > tag.Uint16 {
			units := (Field{b, idx}).Units()
			src := b.payloadUnit(idx)
			if t != src {
				copy(b.raw[t*4:(t+units)*4], b.raw[src*4:(src+units)*4])
			}
			offset := uint16(t - destIdx)
			b.setDesc(destIdx, tg, offset)
			t += units
		} else {
			// Null/Uint16: the descriptor's offset field holds the inline
			// value itself (or the null sentinel), not a payload
			// distance, so it moves verbatim to the new slot.
			b.setDesc(destIdx, tg, b.descOffset(idx))
		}
	}

	b.head += shift
	b.tail = t
	b.junk = 0
	return nil
}

// --- typed upserts (component E) ---

func checkCol(col uint16) error {
	if col > tag.MaxCols {
		return errs.ErrInvalid
	}
	return nil
}

// UpsertNull writes (or overwrites) a header-only null field.
func (b *Buffer) UpsertNull(col uint16) error {
	if err := checkCol(col); err != nil {
		return err
	}
	tg, _ := tag.Pack(col, tag.Null)
	_, err := b.emplace(tg, 0)
	return err
}

// UpsertUint16 writes a value inline in the descriptor's offset field.
func (b *Buffer) UpsertUint16(col uint16, value uint16) error {
	if err := checkCol(col); err != nil {
		return err
	}
	tg, _ := tag.Pack(col, tag.Uint16)
	idx, err := b.emplace(tg, 0)
	if err != nil {
		return err
	}
	b.setDesc(idx, tg, value)
	return nil
}

// UpsertInt32 writes a 4-byte signed integer field.
func (b *Buffer) UpsertInt32(col uint16, value int32) error {
	return b.upsert32(col, tag.Int32, uint32(value))
}

// UpsertUint32 writes a 4-byte unsigned integer field.
func (b *Buffer) UpsertUint32(col uint16, value uint32) error {
	return b.upsert32(col, tag.Uint32, value)
}

// UpsertFloat32 writes a 4-byte IEEE-754 field.
func (b *Buffer) UpsertFloat32(col uint16, value float32) error {
	return b.upsert32(col, tag.Float32, math.Float32bits(value))
}

func (b *Buffer) upsert32(col uint16, typ tag.Type, bits uint32) error {
	if err := checkCol(col); err != nil {
		return err
	}
	tg, _ := tag.Pack(col, typ)
	idx, err := b.emplace(tg, 1)
	if err != nil {
		return err
	}
	b.engine.PutUint32(b.payloadBytes(idx, 1), bits)
	return nil
}

// UpsertInt64 writes an 8-byte signed integer field.
func (b *Buffer) UpsertInt64(col uint16, value int64) error {
	return b.upsert64(col, tag.Int64, uint64(value))
}

// UpsertUint64 writes an 8-byte unsigned integer field.
func (b *Buffer) UpsertUint64(col uint16, value uint64) error {
	return b.upsert64(col, tag.Uint64, value)
}

// UpsertFloat64 writes an 8-byte IEEE-754 field.
func (b *Buffer) UpsertFloat64(col uint16, value float64) error {
	return b.upsert64(col, tag.Float64, math.Float64bits(value))
}

// UpsertDatetime writes a raw 32.32 fixed-point field; see package
// timeval for constructing the bit pattern.
func (b *Buffer) UpsertDatetime(col uint16, raw uint64) error {
	return b.upsert64(col, tag.Datetime, raw)
}

func (b *Buffer) upsert64(col uint16, typ tag.Type, bits uint64) error {
	if err := checkCol(col); err != nil {
		return err
	}
	tg, _ := tag.Pack(col, typ)
	idx, err := b.emplace(tg, 2)
	if err != nil {
		return err
	}
	b.engine.PutUint64(b.payloadBytes(idx, 2), bits)
	return nil
}

// UpsertFixed writes a fixed-size opaque blob (Fixed96/128/160/256). data
// must be exactly the type's byte width.
func (b *Buffer) UpsertFixed(col uint16, typ tag.Type, data []byte) error {
	if err := checkCol(col); err != nil {
		return err
	}
	n, ok := typ.FixedBytes()
	if !ok || typ < tag.Fixed96 || typ > tag.Fixed256 {
		return errs.ErrInvalid
	}
	if len(data) != n {
		return errs.ErrDataLenMismatch
	}
	tg, _ := tag.Pack(col, typ)
	idx, err := b.emplace(tg, uint32(n/4))
	if err != nil {
		return err
	}
	copy(b.payloadBytes(idx, uint32(n/4)), data)
	return nil
}

// UpsertCString writes a UTF-8 c-string field, zero-terminated and
// zero-padded. The trailing unit is zero-filled first so the padding
// bytes are deterministic, which the format relies on for byte-exact
// hashing and canonical-key equivalence.
func (b *Buffer) UpsertCString(col uint16, value string) error {
	if err := checkCol(col); err != nil {
		return err
	}
	bytes := uint32(len(value) + 1)
	if bytes > tag.MaxFieldBytes {
		return errs.ErrInvalid
	}
	units := (bytes + 3) / 4

	tg, _ := tag.Pack(col, tag.CString)
	idx, err := b.emplace(tg, units)
	if err != nil {
		return err
	}

	dst := b.payloadBytes(idx, units)
	for i := range dst[bytes-1:] {
		dst[bytes-1+uint32(i)] = 0
	}
	copy(dst, value)
	dst[bytes-1] = 0
	return nil
}

// UpsertOpaque writes a length-prefixed opaque byte string.
func (b *Buffer) UpsertOpaque(col uint16, value []byte) error {
	if err := checkCol(col); err != nil {
		return err
	}
	bytes := uint32(len(value))
	if bytes > tag.MaxFieldBytes-4 {
		return errs.ErrInvalid
	}
	units := (bytes + 7) / 4

	tg, _ := tag.Pack(col, tag.Opaque)
	idx, err := b.emplace(tg, units)
	if err != nil {
		return err
	}

	payload := b.payloadBytes(idx, units)
	lengthWord := (units-1)<<16 | bytes
	b.engine.PutUint32(payload[:4], lengthWord)
	copy(payload[4:], value)
	return nil
}
