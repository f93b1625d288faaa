package record

import "github.com/positiverec/tuplego/tag"

// Iterator walks a buffer's live descriptors in physical order (head
// toward pivot — newest-appended first), filtering by column and
// type-or-filter exactly as tag.Match defines it.
type Iterator struct {
	buf          *Buffer
	idx          uint32
	col          uint16
	typeOrFilter int32
}

// Iter returns an iterator over col's fields matching typeOrFilter.
func (b *Buffer) Iter(col uint16, typeOrFilter int32) *Iterator {
	return &Iterator{buf: b, idx: b.head, col: col, typeOrFilter: typeOrFilter}
}

// Next returns the next matching field, or (Field{}, false) once the
// range [head, pivot) is exhausted.
func (it *Iterator) Next() (Field, bool) {
	for it.idx < it.buf.pivot {
		i := it.idx
		it.idx++
		tg := it.buf.descTag(i)
		if tg.IsDead() {
			continue
		}
		if tag.Match(tg, it.col, it.typeOrFilter) {
			return Field{it.buf, i}, true
		}
	}
	return Field{}, false
}

// First returns the first field matching col/typeOrFilter.
func (b *Buffer) First(col uint16, typeOrFilter int32) (Field, bool) {
	return b.Iter(col, typeOrFilter).Next()
}

// Count returns the number of fields matching col/typeOrFilter.
func (b *Buffer) Count(col uint16, typeOrFilter int32) int {
	n := 0
	it := b.Iter(col, typeOrFilter)
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	return n
}

// LookupCT returns the first live field whose full tag matches tg exactly
// (column and type both), with no sentinel re-inspection — callers must
// pass a non-dead tag.
func (b *Buffer) LookupCT(tg tag.Tag) (Field, bool) {
	idx, ok := b.lookupCT(tg)
	if !ok {
		return Field{}, false
	}
	return Field{b, idx}, true
}

// FieldFilter is a caller-supplied predicate for FirstFunc/CountFunc; dead
// descriptors are skipped before the predicate is consulted.
type FieldFilter func(Field) bool

// FirstFunc returns the first live field for which filter reports true.
func (b *Buffer) FirstFunc(filter FieldFilter) (Field, bool) {
	for i := b.head; i < b.pivot; i++ {
		if b.descTag(i).IsDead() {
			continue
		}
		f := Field{b, i}
		if filter(f) {
			return f, true
		}
	}
	return Field{}, false
}

// CountFunc counts live fields for which filter reports true.
func (b *Buffer) CountFunc(filter FieldFilter) int {
	n := 0
	for i := b.head; i < b.pivot; i++ {
		if b.descTag(i).IsDead() {
			continue
		}
		if filter(Field{b, i}) {
			n++
		}
	}
	return n
}

// IsOrdered reports whether descriptor tags are non-increasing when
// scanned from head toward pivot — i.e. larger tags were written later
// (fields appended in ascending column order), since each append moves
// head down. The comparator
// consults this to take its fast ordered-scan path.
func (b *Buffer) IsOrdered() bool {
	first := true
	var prev tag.Tag
	for i := b.head; i < b.pivot; i++ {
		tg := b.descTag(i)
		if !first && tg > prev {
			return false
		}
		prev = tg
		first = false
	}
	return true
}
