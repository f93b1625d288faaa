// Package errs defines the sentinel errors returned by tuplego's core
// packages (tag, record, key, timeval).
//
// The core never panics and never logs (see record's validation helpers,
// which return a diagnostic string instead of an error for exactly that
// reason). Every other failure is one of the sentinels below, optionally
// wrapped with fmt.Errorf("...: %w", ...) for call-site context.
package errs

import "errors"

var (
	// ErrInvalid reports a static precondition violation: a nil buffer
	// where one is required, a column number past the limit, or an
	// otherwise malformed argument.
	ErrInvalid = errors.New("tuplego: invalid argument")

	// ErrNoSpace reports that a mutation would exceed the buffer's
	// capacity for descriptors or payload.
	ErrNoSpace = errors.New("tuplego: buffer out of space")

	// ErrNoField reports that a lookup target is absent from the record.
	ErrNoField = errors.New("tuplego: field not found")

	// ErrTypeMismatch reports that an accessor was called against a
	// field of a different type than requested.
	ErrTypeMismatch = errors.New("tuplego: field type mismatch")

	// ErrDataLenMismatch reports that a fixed-size field was presented
	// with the wrong number of bytes.
	ErrDataLenMismatch = errors.New("tuplego: data length mismatch")

	// ErrValueOutOfRange reports a value that cannot be represented in
	// the target column's type without loss, e.g. a 64-bit integer
	// into a 32-bit column.
	ErrValueOutOfRange = errors.New("tuplego: value out of range")

	// ErrKeyMismatch reports an update that would change an indexed key,
	// detected at the store boundary.
	ErrKeyMismatch = errors.New("tuplego: key mismatch")

	// ErrColumnMissing reports that a composite key builder found a
	// required (non-nullable) column unset.
	ErrColumnMissing = errors.New("tuplego: required column missing")
)
