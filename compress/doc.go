// Package compress provides compression codecs for archived tuplego record
// snapshots.
//
// It never touches the core tuple format — record.ReadOnly.Bytes() is
// already a complete, valid serialization before compress ever sees it. The
// archive package (this package's sole caller) applies compression as a
// single stage directly atop those bytes.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// **None** (format.CompressionNone) stores the snapshot unchanged. Use it
// when CPU matters more than storage, or when the data is already
// incompressible.
//
// **Zstandard** (format.CompressionZstd) is the default: it favors
// compression ratio over speed, which fits the archive package's cold-storage
// use case. It reuses pooled encoders/decoders (see zstd.go) so repeated
// Archive/Restore calls avoid per-call allocation.
//
// # Choosing a codec
//
//	archive.New()                                  // Zstd, the default
//	archive.New(archive.WithCodec(format.CompressionNone))
//
// # Thread Safety
//
// Both codecs are safe for concurrent use.
package compress
