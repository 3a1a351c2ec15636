//go:build linux || darwin

package region_test

import (
	"testing"

	"github.com/nextfit/brkalloc/memutils"
	"github.com/nextfit/brkalloc/memutils/region"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMmapRegionCommitsPages(t *testing.T) {
	pageSize := unix.Getpagesize()

	heap, err := region.NewMmapRegion(4 * pageSize)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, heap.Close())
	}()

	require.Empty(t, heap.Bytes())
	require.Equal(t, 0, heap.Committed())

	offset, err := heap.Grow(100)
	require.NoError(t, err)
	require.Equal(t, 0, offset)
	require.Len(t, heap.Bytes(), 100)
	require.Equal(t, pageSize, heap.Committed())

	mem := heap.Bytes()
	for i := range mem {
		mem[i] = byte(i)
	}

	offset, err = heap.Grow(pageSize)
	require.NoError(t, err)
	require.Equal(t, 100, offset)
	require.Equal(t, 2*pageSize, heap.Committed())

	mem = heap.Bytes()
	require.Len(t, mem, 100+pageSize)
	require.Equal(t, byte(99), mem[99])

	// The newly committed page is writable
	mem[len(mem)-1] = 0xFF
}

func TestMmapRegionReservationLimit(t *testing.T) {
	pageSize := unix.Getpagesize()

	heap, err := region.NewMmapRegion(pageSize)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, heap.Close())
	}()

	_, err = heap.Grow(pageSize - 16)
	require.NoError(t, err)

	_, err = heap.Grow(32)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Len(t, heap.Bytes(), pageSize-16)

	_, err = heap.Grow(16)
	require.NoError(t, err)
	require.Len(t, heap.Bytes(), pageSize)
}

func TestMmapRegionClose(t *testing.T) {
	heap, err := region.NewMmapRegion(1 << 16)
	require.NoError(t, err)

	_, err = heap.Grow(64)
	require.NoError(t, err)

	require.NoError(t, heap.Close())
	require.NoError(t, heap.Close())

	_, err = heap.Grow(64)
	require.Error(t, err)
}

func TestMmapRegionInvalidLimit(t *testing.T) {
	_, err := region.NewMmapRegion(0)
	require.Error(t, err)
}
