// Package archive wires the compress and internal/pool packages into a
// cold-storage helper for record.ReadOnly snapshots (SPEC_FULL.md §6). It
// is the one place in tuplego that does non-trivial work outside a
// caller-owned buffer: an Archiver compresses the exact byte range
// record.ReadOnly.Bytes() returns for long-term storage, and restores it
// back into a ReadOnly the record package can validate and read normally.
// It never touches a mutable Buffer and never participates in the core's
// invariants, matching the teacher's own split between the wire format
// (section/blob) and its optional compression layer (compress).
package archive

import (
	"encoding/binary"

	"github.com/positiverec/tuplego/compress"
	"github.com/positiverec/tuplego/endian"
	"github.com/positiverec/tuplego/errs"
	"github.com/positiverec/tuplego/format"
	"github.com/positiverec/tuplego/internal/pool"
	"github.com/positiverec/tuplego/record"
)

// envelopeHeaderLen is the width, in bytes, of the codec tag prefixed to
// every archived snapshot.
const envelopeHeaderLen = 1

// Archiver compresses and decompresses record.ReadOnly snapshots for
// cold storage, using one fixed compression codec per instance.
type Archiver struct {
	codecType format.CompressionType
	codec     compress.Codec
}

// Option configures a new Archiver.
type Option func(*options)

type options struct {
	codecType format.CompressionType
}

// WithCodec selects the compression algorithm an Archiver uses. The
// default, if omitted, is format.CompressionZstd.
func WithCodec(t format.CompressionType) Option {
	return func(o *options) { o.codecType = t }
}

// New builds an Archiver. It fails if the requested codec is unknown to
// compress.CreateCodec.
func New(opts ...Option) (*Archiver, error) {
	o := options{codecType: format.CompressionZstd}
	for _, opt := range opts {
		opt(&o)
	}

	codec, err := compress.CreateCodec(o.codecType, "archive")
	if err != nil {
		return nil, err
	}

	return &Archiver{codecType: o.codecType, codec: codec}, nil
}

// Archive compresses ro's serialized bytes into a self-describing
// envelope (one codec-tag byte followed by the compressed payload) that
// Restore can later decode without the caller tracking which codec was
// used. The returned slice is newly allocated and independent of ro's
// backing array.
func (a *Archiver) Archive(ro record.ReadOnly) ([]byte, error) {
	compressed, err := a.codec.Compress(ro.Bytes())
	if err != nil {
		return nil, err
	}

	bb := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(bb)

	bb.MustWrite([]byte{byte(a.codecType)})
	bb.MustWrite(compressed)

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

// Restore decompresses an envelope produced by Archive (with any codec,
// not just a's own) and wraps the result as a ReadOnly using engine. It
// does not call record.ReadOnly.Validate; callers that need to trust an
// archived snapshot's structural integrity should call Validate
// themselves after Restore returns.
func Restore(envelope []byte, engine endian.EndianEngine) (record.ReadOnly, error) {
	if len(envelope) < envelopeHeaderLen {
		return record.ReadOnly{}, errs.ErrInvalid
	}

	codecType := format.CompressionType(envelope[0])
	codec, err := compress.CreateCodec(codecType, "archive")
	if err != nil {
		return record.ReadOnly{}, err
	}

	data, err := codec.Decompress(envelope[envelopeHeaderLen:])
	if err != nil {
		return record.ReadOnly{}, err
	}

	return record.NewReadOnly(data, engine), nil
}

// Codec reports the compression algorithm this Archiver was built with.
func (a *Archiver) Codec() format.CompressionType { return a.codecType }

// ArchiveBatch compresses a run of record.ReadOnly snapshots into a single
// envelope: the codec-tag byte, then each snapshot framed as a big-endian
// uint32 byte length followed by its bytes, the whole concatenation
// compressed once. Batching lets many small snapshots amortize one
// codec's framing/window overhead instead of paying it per record, which
// is the point of giving this path its own pool.ByteBuffer sizing
// (pool.BatchBufferDefaultSize) distinct from the single-record envelope
// used by Archive.
func (a *Archiver) ArchiveBatch(snapshots []record.ReadOnly) ([]byte, error) {
	bb := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(bb)

	var lenBuf [4]byte
	for _, ro := range snapshots {
		data := ro.Bytes()
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
		bb.MustWrite(lenBuf[:])
		bb.MustWrite(data)
	}

	compressed, err := a.codec.Compress(bb.Bytes())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, envelopeHeaderLen+len(compressed))
	out = append(out, byte(a.codecType))
	out = append(out, compressed...)
	return out, nil
}

// RestoreBatch decompresses an envelope produced by ArchiveBatch (with any
// codec) and splits it back into individual ReadOnly snapshots, each
// wrapped with engine. It does not validate any snapshot's structural
// integrity; callers that need to trust the result should call Validate
// on each returned ReadOnly.
func RestoreBatch(envelope []byte, engine endian.EndianEngine) ([]record.ReadOnly, error) {
	if len(envelope) < envelopeHeaderLen {
		return nil, errs.ErrInvalid
	}

	codecType := format.CompressionType(envelope[0])
	codec, err := compress.CreateCodec(codecType, "archive")
	if err != nil {
		return nil, err
	}

	data, err := codec.Decompress(envelope[envelopeHeaderLen:])
	if err != nil {
		return nil, err
	}

	var out []record.ReadOnly
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, errs.ErrInvalid
		}
		n := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < n {
			return nil, errs.ErrInvalid
		}
		out = append(out, record.NewReadOnly(data[:n], engine))
		data = data[n:]
	}
	return out, nil
}
