package memutils_test

import (
	"math"
	"testing"

	"github.com/nextfit/brkalloc/memutils"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, memutils.AlignUp(0, 16))
	require.Equal(t, 16, memutils.AlignUp(1, 16))
	require.Equal(t, 16, memutils.AlignUp(16, 16))
	require.Equal(t, 112, memutils.AlignUp(100, 16))
	require.Equal(t, 4096, memutils.AlignUp(4095, 4096))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(16, "alignment"))
	require.NoError(t, memutils.CheckPow2(uint(1), "alignment"))

	err := memutils.CheckPow2(24, "alignment")
	require.ErrorIs(t, err, memutils.PowerOfTwoError)
	require.ErrorContains(t, err, "alignment is 24")

	require.ErrorIs(t, memutils.CheckPow2(0, "alignment"), memutils.PowerOfTwoError)
}

func TestMulSize(t *testing.T) {
	size, err := memutils.MulSize(10, 16)
	require.NoError(t, err)
	require.Equal(t, 160, size)

	size, err = memutils.MulSize(math.MaxInt, 0)
	require.NoError(t, err)
	require.Equal(t, 0, size)

	size, err = memutils.MulSize(0, math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, 0, size)

	size, err = memutils.MulSize(math.MaxInt, 1)
	require.NoError(t, err)
	require.Equal(t, math.MaxInt, size)

	_, err = memutils.MulSize(math.MaxInt/2+1, 2)
	require.ErrorIs(t, err, memutils.ErrSizeOverflow)

	_, err = memutils.MulSize(-1, 8)
	require.ErrorIs(t, err, memutils.ErrSizeOverflow)

	_, err = memutils.MulSize(8, -1)
	require.ErrorIs(t, err, memutils.ErrSizeOverflow)
}

func TestDetailedStatistics(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()

	require.Equal(t, memutils.DetailedStatistics{
		AllocationSizeMin:  math.MaxInt,
		UnusedRangeSizeMin: math.MaxInt,
	}, stats)
	require.Equal(t, 0.0, stats.Fragmentation())

	stats.AddAllocation(32)
	stats.AddAllocation(64)
	stats.AddUnusedRange(48)
	stats.AddUnusedRange(16)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      4,
			AllocationCount: 2,
			AllocationBytes: 96,
		},
		UnusedRangeCount:   2,
		UnusedBytes:        64,
		AllocationSizeMin:  32,
		AllocationSizeMax:  64,
		UnusedRangeSizeMin: 16,
		UnusedRangeSizeMax: 48,
	}, stats)
	require.InDelta(t, 0.25, stats.Fragmentation(), 1e-9)
	require.Equal(t, 64, stats.HeaderBytes(16))
}
