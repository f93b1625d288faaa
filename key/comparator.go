package key

import "bytes"

// Comparator is the three-way ordering function tuplego hands to the
// external store at index-open time: negative when a<b,
// zero when equal, positive when a>b. The store is oblivious to which
// variant is active.
type Comparator func(a, b []byte) int

// Forward is the comparator for a forward-ordered index: unsigned memcmp,
// with a shorter prefix-equal key sorting less.
func Forward(a, b []byte) int {
	return bytes.Compare(a, b)
}

// ReverseCompare is the comparator for a reverse-ordered index: memcmp of
// the two byte strings read tail-to-head, equivalent to comparing the
// inputs after both have been reversed at key-build time (see Reverse).
func ReverseCompare(a, b []byte) int {
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Unordered is the comparator for an unordered (hash-equality-only) index:
// full memcmp, with no meaning attached to the sign of a nonzero result
// beyond "not equal".
func Unordered(a, b []byte) int {
	return bytes.Compare(a, b)
}
