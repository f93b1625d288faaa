package record

import (
	"sort"

	"github.com/positiverec/tuplego/tag"
)

// SortTags fills out with the ascending, de-duplicated set of tags
// present among the buffer's live descriptors and returns the filled
// prefix. out must have length at least Len().
//
// This buffer's insertion discipline normally leaves descriptors in
// descending tag order from head to pivot (see IsOrdered), so the common
// case is detected by the reverse scan (tried after a forward scan that
// stops at the first out-of-order tag) turning out already
// ascending — no sort needed. If neither the forward nor the reverse
// scan is ascending throughout, this falls back to collecting every live
// tag and sorting it directly; the reference implementation instead
// switches to a bitset sized to the observed tag range to avoid an
// O(n log n) sort, an optimization not reproduced here since a full
// record never holds more than tag.MaxFields entries and sort.Slice over
// that many elements is not a measurable cost in Go.
func (b *Buffer) SortTags(out []tag.Tag) []tag.Tag {
	if n, ok := b.collectAscendingForward(out); ok {
		return out[:n]
	}
	if n, ok := b.collectAscendingReverse(out); ok {
		return out[:n]
	}

	n := 0
	for i := b.head; i < b.pivot; i++ {
		if tg := b.descTag(i); !tg.IsDead() {
			out[n] = tg
			n++
		}
	}
	tags := out[:n]
	sort.Slice(tags, func(a, c int) bool { return tags[a] < tags[c] })
	return dedupeSorted(tags)
}

// collectAscendingForward walks head->pivot, appending each new distinct
// tag. It reports ok=false the moment an out-of-order element is found,
// leaving out's contents undefined beyond the caller's next attempt.
func (b *Buffer) collectAscendingForward(out []tag.Tag) (int, bool) {
	n := 0
	for i := b.head; i < b.pivot; i++ {
		tg := b.descTag(i)
		if tg.IsDead() {
			continue
		}
		if n > 0 {
			if tg < out[n-1] {
				return 0, false
			}
			if tg == out[n-1] {
				continue
			}
		}
		out[n] = tg
		n++
	}
	return n, true
}

// collectAscendingReverse walks pivot->head (oldest-appended first),
// which is ascending whenever the buffer still has its natural
// descending head-to-pivot insertion order.
func (b *Buffer) collectAscendingReverse(out []tag.Tag) (int, bool) {
	n := 0
	for i := b.pivot; i > b.head; i-- {
		tg := b.descTag(i - 1)
		if tg.IsDead() {
			continue
		}
		if n > 0 {
			if tg < out[n-1] {
				return 0, false
			}
			if tg == out[n-1] {
				continue
			}
		}
		out[n] = tg
		n++
	}
	return n, true
}

// dedupeSorted collapses adjacent equal tags in an already-sorted slice.
func dedupeSorted(tags []tag.Tag) []tag.Tag {
	if len(tags) == 0 {
		return tags
	}
	n := 1
	for i := 1; i < len(tags); i++ {
		if tags[i] != tags[n-1] {
			tags[n] = tags[i]
			n++
		}
	}
	return tags[:n]
}
