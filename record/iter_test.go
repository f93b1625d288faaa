package record_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/positiverec/tuplego/record"
	"github.com/positiverec/tuplego/tag"
)

func TestIter_VisitsOnlyMatchingColumnAndType(t *testing.T) {
	buf := newBuffer(t, 8, 128)
	require.NoError(t, buf.UpsertOpaque(1, []byte{1}))
	require.NoError(t, buf.UpsertOpaque(1, []byte{2}))
	require.NoError(t, buf.UpsertOpaque(2, []byte{3}))

	it := buf.Iter(1, int32(tag.Opaque))
	var seen [][]byte
	for {
		f, ok := it.Next()
		if !ok {
			break
		}
		b, err := f.Opaque()
		require.NoError(t, err)
		seen = append(seen, b)
	}
	require.Len(t, seen, 1)
}

func TestCount_MatchesIterLength(t *testing.T) {
	buf := newBuffer(t, 8, 128)
	require.NoError(t, buf.UpsertInt32(1, 1))
	require.NoError(t, buf.UpsertInt32(1, 2))
	require.NoError(t, buf.UpsertInt32(2, 3))

	require.Equal(t, 1, buf.Count(1, int32(tag.Int32)))
	require.Equal(t, 1, buf.Count(2, int32(tag.Int32)))
	require.Equal(t, 0, buf.Count(3, int32(tag.Int32)))
}

func TestFirst_ReturnsFalseWhenAbsent(t *testing.T) {
	buf := newBuffer(t, 4, 64)
	_, ok := buf.First(1, int32(tag.Int32))
	require.False(t, ok)
}

func TestFirst_SkipsDeadDescriptors(t *testing.T) {
	buf := newBuffer(t, 4, 64)
	require.NoError(t, buf.UpsertInt32(1, 1))
	buf.EraseByColumn(1, int32(tag.Int32))

	_, ok := buf.First(1, int32(tag.Int32))
	require.False(t, ok)
}

func TestFirstFunc_AppliesPredicate(t *testing.T) {
	buf := newBuffer(t, 8, 128)
	require.NoError(t, buf.UpsertInt32(1, 1))
	require.NoError(t, buf.UpsertInt32(2, 42))

	f, ok := buf.FirstFunc(func(f record.Field) bool {
		v, err := f.Int32()
		return err == nil && v == 42
	})
	require.True(t, ok)
	require.EqualValues(t, 2, f.Col())
}

func TestIsOrdered_DetectsAscendingColumnInsertion(t *testing.T) {
	buf := newBuffer(t, 8, 128)
	require.NoError(t, buf.UpsertInt32(1, 1))
	require.NoError(t, buf.UpsertInt32(2, 2))
	require.NoError(t, buf.UpsertInt32(3, 3))
	require.True(t, buf.IsOrdered())
}

func TestIsOrdered_FalseAfterDescendingColumnInsertion(t *testing.T) {
	buf := newBuffer(t, 8, 128)
	require.NoError(t, buf.UpsertInt32(3, 1))
	require.NoError(t, buf.UpsertInt32(1, 2))
	require.NoError(t, buf.UpsertInt32(2, 3))
	require.False(t, buf.IsOrdered())
}

func TestLookupCT_FindsExactTag(t *testing.T) {
	buf := newBuffer(t, 4, 64)
	require.NoError(t, buf.UpsertInt32(5, 9))
	tg, err := tag.Pack(5, tag.Int32)
	require.NoError(t, err)

	f, ok := buf.LookupCT(tg)
	require.True(t, ok)
	v, err := f.Int32()
	require.NoError(t, err)
	require.EqualValues(t, 9, v)
}
