package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndBytes(t *testing.T) {
	bb := NewByteBuffer(ArchiveBufferDefaultSize)
	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(ArchiveBufferDefaultSize)
	bb.MustWrite([]byte("data"))
	cap0 := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, cap0, bb.Cap())
}

func TestByteBuffer_SliceBounds(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("0123456789"))
	assert.Equal(t, []byte("234"), bb.Slice(2, 5))

	assert.Panics(t, func() { bb.Slice(-1, 2) })
	assert.Panics(t, func() { bb.Slice(5, 2) })
	assert.Panics(t, func() { bb.Slice(0, 100) })
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(8)
	assert.Equal(t, 8, bb.Len())

	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(100) })
}

func TestByteBuffer_ExtendAndGrow(t *testing.T) {
	bb := NewByteBuffer(8)
	ok := bb.Extend(4)
	require.True(t, ok)
	assert.Equal(t, 4, bb.Len())

	ok = bb.Extend(1000)
	assert.False(t, ok)

	bb.ExtendOrGrow(1000)
	assert.Equal(t, 1004, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 1004)
}

func TestByteBuffer_GrowNoopWhenCapacitySufficient(t *testing.T) {
	bb := NewByteBuffer(ArchiveBufferDefaultSize)
	before := bb.Cap()
	bb.Grow(16)
	assert.Equal(t, before, bb.Cap())
}

func TestByteBuffer_GrowLargeBufferUsesQuarterStep(t *testing.T) {
	bb := NewByteBuffer(8 * ArchiveBufferDefaultSize)
	bb.MustWrite(make([]byte, 8*ArchiveBufferDefaultSize))
	before := bb.Cap()
	bb.Grow(1)
	assert.Greater(t, bb.Cap(), before)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(ArchiveBufferDefaultSize)
	bb.MustWrite([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", out.String())
}

func TestByteBufferPool_GetPutRoundTrip(t *testing.T) {
	p := NewByteBufferPool(64, 1024)
	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("x"))
	p.Put(bb)

	bb2 := p.Get()
	require.NotNil(t, bb2)
	assert.Equal(t, 0, bb2.Len(), "pooled buffers come back reset")
}

func TestByteBufferPool_PutNilIsNoop(t *testing.T) {
	p := NewByteBufferPool(64, 1024)
	assert.NotPanics(t, func() { p.Put(nil) })
}

func TestByteBufferPool_DiscardsOverThreshold(t *testing.T) {
	p := NewByteBufferPool(64, 128)
	bb := NewByteBuffer(256)
	p.Put(bb) // over threshold, should be dropped rather than pooled

	bb2 := p.Get()
	require.NotNil(t, bb2)
	assert.LessOrEqual(t, bb2.Cap(), 256)
}

func TestGetPutArchiveBuffer(t *testing.T) {
	bb := GetArchiveBuffer()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, bb.Cap(), ArchiveBufferDefaultSize)

	bb.MustWrite([]byte("snapshot"))
	PutArchiveBuffer(bb)

	bb2 := GetArchiveBuffer()
	assert.Equal(t, 0, bb2.Len())
	PutArchiveBuffer(bb2)
}

func TestGetPutBatchBuffer(t *testing.T) {
	bb := GetBatchBuffer()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, bb.Cap(), BatchBufferDefaultSize)
	PutBatchBuffer(bb)
}
