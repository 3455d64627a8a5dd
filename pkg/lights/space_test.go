package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpace(t *testing.T, kind ModelKind, colors int, classL bool) *Space {
	t.Helper()
	d, err := NewDomain(kind, colors, classL)
	require.NoError(t, err)
	s, err := NewSpace(d)
	require.NoError(t, err)
	return s
}

func TestSpaceSize(t *testing.T) {
	for _, tc := range []struct {
		kind   ModelKind
		colors int
		classL bool
		size   uint64
	}{
		{Full, 2, false, 1_679_616},
		{Full, 2, true, 1_296},
		{Full, 1, false, 9},
		{External, 4, true, 20_736},
		{External, 4, false, 429_981_696},
		{Internal, 2, false, 1_296},
	} {
		s := mustSpace(t, tc.kind, tc.colors, tc.classL)
		assert.Equal(t, tc.size, s.Size(), "%v colors=%d classL=%v", tc.kind, tc.colors, tc.classL)
	}
}

func TestSpaceFirstAlgorithms(t *testing.T) {
	s := mustSpace(t, Full, 2, false)

	// slot 0 is the least significant digit of the odometer
	assert.Equal(t, "S0_S0_S0_S0_S0_S0_S0_S0", s.At(0).Suffix())
	assert.Equal(t, "S1_S0_S0_S0_S0_S0_S0_S0", s.At(1).Suffix())
	assert.Equal(t, "H0_S0_S0_S0_S0_S0_S0_S0", s.At(2).Suffix())
	assert.Equal(t, "H1_S0_S0_S0_S0_S0_S0_S0", s.At(3).Suffix())
	assert.Equal(t, "O0_S0_S0_S0_S0_S0_S0_S0", s.At(4).Suffix())
	assert.Equal(t, "O1_S0_S0_S0_S0_S0_S0_S0", s.At(5).Suffix())
	assert.Equal(t, "S0_S1_S0_S0_S0_S0_S0_S0", s.At(6).Suffix())

	// last algorithm has every slot at the largest decision
	assert.Equal(t, "O1_O1_O1_O1_O1_O1_O1_O1", s.At(s.Size()-1).Suffix())
}

func TestCursorMatchesAt(t *testing.T) {
	s := mustSpace(t, Full, 2, true)

	cur := s.Cursor(Range{Lo: 0, Hi: s.Size()})
	for i := uint64(0); i < s.Size(); i++ {
		assert.Equal(t, i, cur.Index())
		algo, ok := cur.Next()
		require.True(t, ok, "index %d", i)
		assert.Equal(t, s.At(i).Suffix(), algo.Suffix(), "index %d", i)
	}
	_, ok := cur.Next()
	assert.False(t, ok)
}

func TestCursorSubRange(t *testing.T) {
	s := mustSpace(t, External, 2, true)

	cur := s.Cursor(Range{Lo: 10, Hi: 15})
	for i := uint64(10); i < 15; i++ {
		algo, ok := cur.Next()
		require.True(t, ok)
		assert.Equal(t, s.At(i).Suffix(), algo.Suffix())
	}
	_, ok := cur.Next()
	assert.False(t, ok)
}

func TestPartitionCoversSpace(t *testing.T) {
	s := mustSpace(t, Full, 2, true)

	for _, p := range []int{1, 2, 3, 7, 16} {
		ranges := s.Partition(p)
		require.Len(t, ranges, p)

		var total uint64
		prev := uint64(0)
		for i, r := range ranges {
			assert.Equal(t, prev, r.Lo, "p=%d range %d is not contiguous", p, i)
			assert.LessOrEqual(t, r.Lo, r.Hi)
			total += r.Len()
			prev = r.Hi
		}
		assert.Equal(t, s.Size(), total, "p=%d", p)
		assert.Equal(t, s.Size(), ranges[p-1].Hi, "p=%d", p)
	}
}

func TestPartitionMorePartsThanAlgorithms(t *testing.T) {
	s := mustSpace(t, Full, 1, false) // 9 algorithms

	ranges := s.Partition(16)
	var nonEmpty int
	var total uint64
	for _, r := range ranges {
		if r.Len() > 0 {
			nonEmpty++
		}
		total += r.Len()
	}
	assert.Equal(t, uint64(9), total)
	assert.Equal(t, 9, nonEmpty)
}

func TestSpaceOverflowRejected(t *testing.T) {
	d, err := NewDomain(Full, 5, false) // 15^50 does not fit uint64
	require.NoError(t, err)
	_, err = NewSpace(d)
	assert.Error(t, err)
}
