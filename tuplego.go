// Package tuplego provides a compact binary tuple/record format: a
// heterogeneous, column-numbered field bag with O(1) random access,
// in-place mutation, a read-only serialized form, a five-valued record
// comparator, and a canonical order-preserving key composer suitable for
// handing to an external ordered key-value store.
//
// # Core Features
//
//   - Dense 32-bit field descriptors (16-bit type-and-column tag, 16-bit
//     payload offset), with fixed and variable-length payload types
//   - In-place append/update/erase and idempotent Shrink compaction
//   - A read-only serialized form with its own header and Validate check
//   - A five-valued comparator (Less/Equal/Greater/Incomparable/NotEqual)
//     usable at three speeds: raw-bytes memcmp, tag-ordered walk, or a
//     slow general walk for unordered/mesh layouts
//   - Canonical, order-preserving keys for every supported field type,
//     plus the three store comparators (forward, reverse, unordered) an
//     external index needs
//   - An optional archival layer (see package archive) that compresses a
//     read-only snapshot for cold storage without touching the core
//     format
//
// # Basic Usage
//
// Building a record:
//
//	import (
//	    "github.com/positiverec/tuplego"
//	    "github.com/positiverec/tuplego/endian"
//	)
//
//	raw := make([]byte, tuplego.Space(8, 256))
//	buf, _ := tuplego.NewBuffer(raw, 8)
//	buf.UpsertInt32(1, -42)
//	buf.UpsertCString(2, "example.com")
//
//	ro, _ := buf.Take()
//
// Comparing two read-only records:
//
//	result := tuplego.Compare(roA, roB)
//	if result == tuplego.Equal { ... }
//
// # Package Structure
//
// This package is a thin convenience facade over record (the codec and
// comparator), key (canonical keys and store comparators), and timeval
// (the fixed-point time value). Applications needing fine-grained
// control — custom endian engines, composite keys, archival — should
// import those packages directly; this file only re-exports the names
// needed for the common case so callers don't have to import record for
// every trivial use.
package tuplego

import (
	"github.com/positiverec/tuplego/endian"
	"github.com/positiverec/tuplego/record"
)

// Buffer is the mutable, read-write tuple form. See package record for
// the full API.
type Buffer = record.Buffer

// ReadOnly is the serialized, read-only tuple form. See package record.
type ReadOnly = record.ReadOnly

// Field is a read view over one descriptor, produced by lookups and
// iteration on a Buffer. See package record.
type Field = record.Field

// Result is the five-valued outcome of Compare. See package record.
type Result = record.Result

// The Result bits (Equal and the three non-equal outcomes) and the
// NotEqual disjunction, re-exported for callers that only import this
// facade package.
const (
	Incomparable = record.Incomparable
	Less         = record.Less
	Greater      = record.Greater
	Equal        = record.Equal
	NotEqual     = record.NotEqual
)

// Space returns the number of bytes a buffer needs to hold up to items
// descriptor slots and dataBytes of payload without reallocation.
func Space(items, dataBytes int) int { return record.Space(items, dataBytes) }

// NewBuffer prepares raw as an empty mutable Buffer using the
// little-endian engine, tuplego's default. Callers needing big-endian
// interoperability should call record.Init directly with
// endian.GetBigEndianEngine().
func NewBuffer(raw []byte, reserveItems int) (*Buffer, error) {
	return record.Init(raw, reserveItems, endian.GetLittleEndianEngine())
}

// Compare reports the five-valued relationship between two read-only
// records, dispatching to the fastest applicable comparison strategy.
func Compare(a, b ReadOnly) Result { return record.Compare(a, b) }
