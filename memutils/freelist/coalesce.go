package freelist

// Coalesce merges a free block with any free block that is physically contiguous with it. The
// previous neighbor is merged first, so when it exists the surviving block is the previous
// neighbor; the next neighbor is then absorbed into whichever block survived. Absorbed blocks are
// unlinked from the free list.
//
// The provided block must already be in the free list. Coalescing a block that has no free
// neighbors changes nothing and returns the same block.
func (l *List) Coalesce(block int) (int, error) {
	if block == NoBlock {
		return NoBlock, nil
	}

	prev := l.FindPreviousNeighbor(block)
	next := l.FindNextNeighbor(block)

	if prev != NoBlock {
		err := l.Remove(block)
		if err != nil {
			return block, err
		}

		l.setSize(prev, l.Size(prev)+l.Size(block)+HeaderSize)
		block = prev
	}

	if next != NoBlock {
		err := l.Remove(next)
		if err != nil {
			return block, err
		}

		l.setSize(block, l.Size(block)+l.Size(next)+HeaderSize)
	}

	return block, nil
}
