package freelist

import (
	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

type span struct {
	offset int
	end    int
}

// VisitAllRegions walks the attached heap physically, from offset 0 to the end of the attached
// memory, and calls the provided callback once for each block with its header offset, payload size,
// and whether it is in the free list. The walk relies on every byte of the heap belonging to some
// block, and returns an error if a header describes a block that runs past the end of the heap.
func (l *List) VisitAllRegions(handleBlock func(offset int, size int, free bool) error) error {
	freeBlocks := swiss.NewMap[int, struct{}](42)
	for block := l.head; block != NoBlock; block = l.Next(block) {
		if freeBlocks.Has(block) {
			return errors.Errorf("free list contains a cycle at offset %d", block)
		}
		freeBlocks.Put(block, struct{}{})
	}

	heapLen := len(l.mem)
	for offset := 0; offset < heapLen; {
		if offset+HeaderSize > heapLen {
			return errors.Errorf("block header at offset %d runs past the end of the heap at %d", offset, heapLen)
		}

		size := l.Size(offset)
		if size < 0 || size > heapLen-offset-HeaderSize {
			return errors.Errorf("block at offset %d with size %d runs past the end of the heap at %d", offset, size, heapLen)
		}
		end := offset + HeaderSize + size

		err := handleBlock(offset, size, freeBlocks.Has(offset))
		if err != nil {
			return err
		}

		offset = end
	}

	return nil
}

// Validate performs internal consistency checks on the free list and the heap it is attached to.
// It verifies that every listed block lies inside the heap, that the list has no cycles or
// duplicates, that free blocks do not overlap, that the heap is tiled exactly by blocks, that every
// listed block starts on a block boundary, and that no two free blocks are physically contiguous.
// These checks walk the entire heap and are expensive.
func (l *List) Validate() error {
	heapLen := len(l.mem)
	visited := swiss.NewMap[int, struct{}](42)
	var spans []span

	for block := l.head; block != NoBlock; block = l.Next(block) {
		if block < 0 || block+HeaderSize > heapLen {
			return errors.Errorf("free block at offset %d lies outside the heap of %d bytes", block, heapLen)
		}
		if block%HeaderSize != 0 {
			return errors.Errorf("free block at offset %d is not aligned to %d bytes", block, HeaderSize)
		}
		if visited.Has(block) {
			return errors.Errorf("free block at offset %d appears in the free list twice", block)
		}
		visited.Put(block, struct{}{})

		size := l.Size(block)
		if size < 0 || size > heapLen-block-HeaderSize {
			return errors.Errorf("free block at offset %d with size %d runs past the end of the heap at %d", block, size, heapLen)
		}
		end := block + HeaderSize + size
		spans = append(spans, span{offset: block, end: end})
	}

	slices.SortFunc(spans, func(a, b span) int {
		return a.offset - b.offset
	})

	for i := 1; i < len(spans); i++ {
		if spans[i-1].end > spans[i].offset {
			return errors.Errorf("free block at offset %d overlaps free block at offset %d", spans[i-1].offset, spans[i].offset)
		}
	}

	freeSeen := 0
	prevFree := false
	err := l.VisitAllRegions(func(offset int, size int, free bool) error {
		if free {
			if prevFree {
				return errors.Errorf("free block at offset %d directly follows another free block", offset)
			}
			freeSeen++
		}
		prevFree = free
		return nil
	})
	if err != nil {
		return err
	}

	if freeSeen != visited.Count() {
		return errors.Errorf("the free list holds %d blocks, but only %d of them start on a block boundary", visited.Count(), freeSeen)
	}

	return nil
}
