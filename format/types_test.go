package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressionType_String(t *testing.T) {
	cases := []struct {
		c    CompressionType
		want string
	}{
		{CompressionNone, "None"},
		{CompressionZstd, "Zstd"},
		{CompressionType(0xFF), "Unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.c.String())
	}
}
