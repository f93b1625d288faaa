// Package hash wraps xxHash64 for the two places tuplego needs a fast,
// well-distributed 64-bit digest: the key package's hash-tail for
// over-length string/opaque canonical keys, and its unordered-index keys.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// IDBytes computes the xxHash64 of the given byte slice.
func IDBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
