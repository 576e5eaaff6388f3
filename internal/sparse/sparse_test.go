package sparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertContains(t *testing.T) {
	s := NewSparseSet(16)
	require.Zero(t, s.Len())
	require.Equal(t, 16, s.Capacity())

	for _, v := range []uint32{9, 0, 15, 4} {
		require.False(t, s.Contains(v))
		require.True(t, s.Insert(v))
		require.True(t, s.Contains(v))
	}
	require.False(t, s.Insert(9), "duplicate insert")
	require.Equal(t, 4, s.Len())
	require.Equal(t, []uint32{9, 0, 15, 4}, s.Values())
}

func TestClearForgetsMembers(t *testing.T) {
	s := NewSparseSet(16)
	s.Insert(3)
	s.Insert(7)
	s.Clear()

	require.Zero(t, s.Len())
	require.False(t, s.Contains(3))
	require.False(t, s.Contains(7))

	// The dense slot once holding 3 now holds 7; 3 must stay absent.
	s.Insert(7)
	require.True(t, s.Contains(7))
	require.False(t, s.Contains(3))
}

func TestOutOfRange(t *testing.T) {
	s := NewSparseSet(8)
	require.False(t, s.Contains(8))
	require.False(t, s.Contains(1<<31))
}

func BenchmarkVisitedStates(b *testing.B) {
	s := NewSparseSet(1024)
	for i := 0; i < b.N; i++ {
		s.Clear()
		for j := uint32(0); j < 1024; j += 3 {
			s.Insert(j)
		}
	}
}
