// Package freelist maintains a singly linked list of free blocks threaded through the headers of a
// heap's raw bytes. Blocks are addressed by the byte offset of their header. The list is unordered:
// blocks appear in the order they were linked, not in address order.
package freelist

import (
	"github.com/cockroachdb/errors"
	"github.com/nextfit/brkalloc/memutils"
)

// UnlinkFunc is called every time a block leaves the free list. successor is the block that now
// occupies the departed block's position in the list, or NoBlock if it was the last entry.
type UnlinkFunc func(block, successor int)

// List is a free list over a single heap. It does not own memory: the heap's bytes are attached
// with Attach and must be re-attached whenever the heap grows.
type List struct {
	mem      []byte
	head     int
	onUnlink UnlinkFunc
}

// New creates an empty free list. onUnlink may be nil.
func New(onUnlink UnlinkFunc) *List {
	return &List{
		head:     NoBlock,
		onUnlink: onUnlink,
	}
}

// Attach points the list at the heap's current bytes. Offsets previously handed out remain valid as
// long as mem starts at the same heap offset 0.
func (l *List) Attach(mem []byte) {
	l.mem = mem
}

// Memory returns the bytes most recently attached
func (l *List) Memory() []byte {
	return l.mem
}

// Head returns the first block in the free list, or NoBlock if the list is empty
func (l *List) Head() int {
	return l.head
}

// IsEmpty returns true if no blocks are free
func (l *List) IsEmpty() bool {
	return l.head == NoBlock
}

// Len walks the free list and returns the number of blocks in it
func (l *List) Len() int {
	count := 0
	for block := l.head; block != NoBlock; block = l.Next(block) {
		count++
	}
	return count
}

// FreeBytes walks the free list and returns the sum of the payload sizes of its blocks
func (l *List) FreeBytes() int {
	sum := 0
	for block := l.head; block != NoBlock; block = l.Next(block) {
		sum += l.Size(block)
	}
	return sum
}

// Contains returns true if the provided block is currently linked into the free list
func (l *List) Contains(block int) bool {
	for curr := l.head; curr != NoBlock; curr = l.Next(curr) {
		if curr == block {
			return true
		}
	}
	return false
}

// Push links the provided block in at the head of the free list
func (l *List) Push(block int) {
	l.setNext(block, l.head)
	l.head = block
}

// Split cuts a free block into a first block of exactly size payload bytes and a remainder block
// that starts immediately after it. The remainder inherits the original block's link, but neither
// block's position in the list changes: threading the remainder in is the caller's responsibility.
//
// If the block is too small to hold size bytes plus another header, it is left untouched and the
// returned remainder is NoBlock.
func (l *List) Split(block, size int) (first, remainder int) {
	original := l.Size(block)
	if original < size+HeaderSize {
		return block, NoBlock
	}

	remainder = block + HeaderSize + size
	l.setSize(remainder, original-size-HeaderSize)
	l.setNext(remainder, l.Next(block))
	l.setSize(block, size)

	return block, remainder
}

// FindPreviousNeighbor scans the free list for a block whose span ends exactly where the provided
// block begins. It returns NoBlock if there is none.
func (l *List) FindPreviousNeighbor(block int) int {
	for curr := l.head; curr != NoBlock; curr = l.Next(curr) {
		if l.End(curr) == block {
			return curr
		}
	}
	return NoBlock
}

// FindNextNeighbor scans the free list for a block that begins exactly where the provided block's
// span ends. It returns NoBlock if there is none.
func (l *List) FindNextNeighbor(block int) int {
	end := l.End(block)
	for curr := l.head; curr != NoBlock; curr = l.Next(curr) {
		if curr == end {
			return curr
		}
	}
	return NoBlock
}

func (l *List) findPredecessor(block int) int {
	for curr := l.head; curr != NoBlock; curr = l.Next(curr) {
		if l.Next(curr) == block {
			return curr
		}
	}
	return NoBlock
}

// Remove unlinks the provided block from the free list. Blocks are matched by offset. It returns an
// error wrapping memutils.ErrInvalidFreeList if the block is not in the list.
func (l *List) Remove(block int) error {
	if block == NoBlock {
		return errors.Wrap(memutils.ErrInvalidFreeList, "cannot remove NoBlock")
	}

	return l.Replace(NoBlock, block, l.Next(block))
}

// Replace puts replacement into the free list position held by block, unlinking block. The
// replacement's own link must already point where the list should continue; Split arranges this for
// its remainder. prev is the block expected to precede block, or NoBlock if it is unknown, in which
// case the list is scanned for it.
func (l *List) Replace(prev, block, replacement int) error {
	if block == NoBlock {
		return errors.Wrap(memutils.ErrInvalidFreeList, "cannot replace NoBlock")
	}

	if l.head == block {
		l.head = replacement
	} else {
		if prev == NoBlock || l.Next(prev) != block {
			prev = l.findPredecessor(block)
		}
		if prev == NoBlock {
			return errors.Wrapf(memutils.ErrInvalidFreeList, "block at offset %d is not in the free list", block)
		}
		l.setNext(prev, replacement)
	}

	if l.onUnlink != nil {
		l.onUnlink(block, replacement)
	}
	return nil
}
