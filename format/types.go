// Package format holds the small shared enumerations the archive package's
// compression codecs are parameterized over. The core codec (record/tag/key)
// carries no format enum of its own — its byte layout is fixed by spec, not
// configurable — so this package's only remaining concern is archival
// compression choice.
package format

// CompressionType selects the algorithm an archive.Archiver uses to compress
// a record snapshot's bytes.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}
