package tuplego

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuffer_TakeCompareRoundTrip(t *testing.T) {
	raw := make([]byte, Space(4, 64))
	buf, err := NewBuffer(raw, 4)
	require.NoError(t, err)
	require.NoError(t, buf.UpsertInt32(1, -7))

	roA, err := buf.Take()
	require.NoError(t, err)

	raw2 := make([]byte, Space(4, 64))
	buf2, err := NewBuffer(raw2, 4)
	require.NoError(t, err)
	require.NoError(t, buf2.UpsertInt32(1, -7))
	roB, err := buf2.Take()
	require.NoError(t, err)

	require.Equal(t, Equal, Compare(roA, roB))
}

func TestNewBuffer_DifferingValuesCompareNotEqual(t *testing.T) {
	raw := make([]byte, Space(4, 64))
	buf, err := NewBuffer(raw, 4)
	require.NoError(t, err)
	require.NoError(t, buf.UpsertInt32(1, -7))
	roA, err := buf.Take()
	require.NoError(t, err)

	raw2 := make([]byte, Space(4, 64))
	buf2, err := NewBuffer(raw2, 4)
	require.NoError(t, err)
	require.NoError(t, buf2.UpsertInt32(1, 7))
	roB, err := buf2.Take()
	require.NoError(t, err)

	require.NotEqual(t, Equal, Compare(roA, roB))
}
