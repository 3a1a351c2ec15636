package alloc

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/nextfit/brkalloc/memutils"
	"github.com/nextfit/brkalloc/memutils/freelist"
	"golang.org/x/exp/slog"
)

const (
	// Alignment is the alignment in bytes of every payload and payload size handed out
	Alignment = 16

	maxRequestSize = math.MaxInt - freelist.HeaderSize - Alignment
)

// alignRequest rounds a requested payload size up to Alignment. A request for 0 bytes is served
// with one alignment unit so that every allocation has a distinct payload.
func alignRequest(size int) (int, error) {
	if size < 0 {
		return 0, errors.Wrapf(memutils.ErrSizeOverflow, "invalid allocation size: %d", size)
	}

	if size > maxRequestSize {
		return 0, errors.Wrapf(memutils.ErrOutOfMemory, "allocation of %d bytes can never be satisfied", size)
	}

	if size == 0 {
		return Alignment, nil
	}

	return memutils.AlignUp(size, Alignment), nil
}

// unlinked keeps the next-fit cursor pointing at a block that is still in the free list
func (a *Allocator) unlinked(block, successor int) {
	if a.cursor == block {
		a.cursor = successor
	}
}

// findFit searches the free list for the first block with at least size payload bytes, beginning at
// the cursor and wrapping around to the head. It returns the block along with the block that
// preceded it in the list, if that is known.
func (a *Allocator) findFit(size int) (block int, prev int) {
	head := a.freeList.Head()
	start := a.cursor
	if a.strategy == StrategyFirstFit || start == freelist.NoBlock {
		start = head
	}

	prev = freelist.NoBlock
	for block = start; block != freelist.NoBlock; block = a.freeList.Next(block) {
		if a.freeList.Size(block) >= size {
			return block, prev
		}
		prev = block
	}

	if start == head {
		return freelist.NoBlock, freelist.NoBlock
	}

	// Wrap around and cover the part of the list behind the cursor
	prev = freelist.NoBlock
	for block = head; block != start && block != freelist.NoBlock; block = a.freeList.Next(block) {
		if a.freeList.Size(block) >= size {
			return block, prev
		}
		prev = block
	}

	return freelist.NoBlock, freelist.NoBlock
}

// take removes a fitting free block from the list, splitting off and keeping the unused tail when
// it is large enough to form a block of its own. The cursor moves to the block that follows.
func (a *Allocator) take(prev, block, size int) error {
	var successor int

	if a.freeList.Size(block) > size+freelist.HeaderSize {
		_, successor = a.freeList.Split(block, size)
	} else {
		successor = a.freeList.Next(block)
	}

	err := a.freeList.Replace(prev, block, successor)
	if err != nil {
		return err
	}

	if successor == freelist.NoBlock {
		successor = a.freeList.Head()
	}
	a.cursor = successor

	return nil
}

// growHeap extends the heap by one block with size payload bytes, links it into the free list and
// merges it with a free block that ends at the old growing edge. It returns the resulting free block,
// which may be larger than requested.
func (a *Allocator) growHeap(size int) (int, error) {
	delta := size + freelist.HeaderSize

	offset, err := a.heap.Grow(delta)
	if err != nil {
		a.logger.Error("failed to grow the heap", slog.Int("Delta", delta), slog.Any("error", err))
		if !errors.Is(err, memutils.ErrOutOfMemory) {
			err = errors.Mark(err, memutils.ErrOutOfMemory)
		}
		return freelist.NoBlock, err
	}

	mem := a.heap.Bytes()
	if offset%Alignment != 0 || offset+delta > len(mem) {
		return freelist.NoBlock, errors.AssertionFailedf("heap region granted [%d, %d) but holds %d bytes", offset, offset+delta, len(mem))
	}

	a.freeList.Attach(mem)
	a.freeList.Format(offset, size)
	a.freeList.Push(offset)

	a.logger.Debug("    Grew heap", slog.Int("Offset", offset), slog.Int("Delta", delta))

	return a.freeList.Coalesce(offset)
}

// place finds or creates a free block for size payload bytes and removes it from the free list
func (a *Allocator) place(size int) (int, error) {
	block, prev := a.findFit(size)

	if block == freelist.NoBlock {
		var err error
		block, err = a.growHeap(size)
		if err != nil {
			a.cursor = freelist.NoBlock
			return freelist.NoBlock, err
		}
		prev = freelist.NoBlock
	}

	err := a.take(prev, block, size)
	if err != nil {
		return freelist.NoBlock, err
	}

	return block, nil
}
