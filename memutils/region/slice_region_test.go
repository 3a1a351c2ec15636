package region_test

import (
	"testing"

	"github.com/nextfit/brkalloc/memutils"
	"github.com/nextfit/brkalloc/memutils/region"
	"github.com/stretchr/testify/require"
)

func TestSliceRegionGrow(t *testing.T) {
	heap := region.NewSliceRegion(256)
	require.Equal(t, 256, heap.Limit())
	require.Empty(t, heap.Bytes())

	offset, err := heap.Grow(48)
	require.NoError(t, err)
	require.Equal(t, 0, offset)
	require.Len(t, heap.Bytes(), 48)

	offset, err = heap.Grow(80)
	require.NoError(t, err)
	require.Equal(t, 48, offset)
	require.Len(t, heap.Bytes(), 128)

	offset, err = heap.Grow(0)
	require.NoError(t, err)
	require.Equal(t, 128, offset)
}

func TestSliceRegionStableAddresses(t *testing.T) {
	heap := region.NewSliceRegion(4096)

	_, err := heap.Grow(16)
	require.NoError(t, err)
	first := &heap.Bytes()[0]
	heap.Bytes()[0] = 0xAB

	_, err = heap.Grow(4000)
	require.NoError(t, err)
	require.Same(t, first, &heap.Bytes()[0])
	require.Equal(t, byte(0xAB), heap.Bytes()[0])
}

func TestSliceRegionLimit(t *testing.T) {
	heap := region.NewSliceRegion(100)

	_, err := heap.Grow(64)
	require.NoError(t, err)

	_, err = heap.Grow(64)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Len(t, heap.Bytes(), 64)

	offset, err := heap.Grow(36)
	require.NoError(t, err)
	require.Equal(t, 64, offset)

	_, err = heap.Grow(1)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
}

func TestSliceRegionNegativeGrowth(t *testing.T) {
	heap := region.NewSliceRegion(100)

	_, err := heap.Grow(-16)
	require.Error(t, err)
	require.NotErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Empty(t, heap.Bytes())
}
