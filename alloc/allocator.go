// Package alloc is a single-heap dynamic memory allocator. Memory is obtained from a region.Region,
// carved into header-prefixed blocks, and recycled through a free list that is searched next-fit.
//
// An Allocator is not safe for concurrent use. Callers that share one between goroutines must
// serialize every call themselves.
package alloc

import (
	"github.com/cockroachdb/errors"
	"github.com/nextfit/brkalloc/memutils"
	"github.com/nextfit/brkalloc/memutils/freelist"
	"github.com/nextfit/brkalloc/memutils/region"
	"golang.org/x/exp/slog"
)

// Ptr is the heap offset of an allocation's first payload byte. The zero value, NilPtr, never refers
// to an allocation.
type Ptr int

// NilPtr is the null pointer
const NilPtr Ptr = 0

type Allocator struct {
	logger   *slog.Logger
	heap     region.Region
	freeList *freelist.List
	strategy AllocationStrategy

	// cursor is the free block the next search starts from, or NoBlock to start at the head
	cursor          int
	allocationCount int
}

var _ memutils.Validatable = &Allocator{}

// Allocate returns a pointer to at least size bytes of uninitialized memory, aligned to Alignment.
// If the heap cannot grow far enough, the returned error wraps memutils.ErrOutOfMemory.
func (a *Allocator) Allocate(size int) (Ptr, error) {
	a.logger.Debug("Allocator::Allocate", slog.Int("Size", size), slog.Int("Cursor", a.cursor))

	request, err := alignRequest(size)
	if err != nil {
		return NilPtr, err
	}

	block, err := a.place(request)
	if err != nil {
		return NilPtr, err
	}

	a.allocationCount++
	ptr := Ptr(freelist.Payload(block))

	a.logger.Debug("    Allocated", slog.Int("Ptr", int(ptr)), slog.Int("Size", a.freeList.Size(block)))
	return ptr, nil
}

// ZeroAllocate returns a pointer to memory for count elements of elementSize bytes each, with every
// usable byte set to zero. If count*elementSize cannot be represented, the returned error wraps
// memutils.ErrSizeOverflow and the heap is not touched.
func (a *Allocator) ZeroAllocate(count, elementSize int) (Ptr, error) {
	a.logger.Debug("Allocator::ZeroAllocate", slog.Int("Count", count), slog.Int("ElementSize", elementSize))

	size, err := memutils.MulSize(count, elementSize)
	if err != nil {
		return NilPtr, err
	}

	ptr, err := a.Allocate(size)
	if err != nil {
		return NilPtr, err
	}

	clear(a.Bytes(ptr))
	return ptr, nil
}

// Resize returns a pointer to at least newSize bytes that begin with the contents of ptr. If ptr's
// block is already large enough, ptr itself is returned and nothing moves. Otherwise the contents
// are copied to a new allocation and ptr is released.
//
// A NilPtr behaves like Allocate. If a new allocation cannot be made, the error is returned and ptr
// remains valid.
func (a *Allocator) Resize(ptr Ptr, newSize int) (Ptr, error) {
	a.logger.Debug("Allocator::Resize", slog.Int("Ptr", int(ptr)), slog.Int("NewSize", newSize))

	if ptr == NilPtr {
		return a.Allocate(newSize)
	}

	if _, err := alignRequest(newSize); err != nil {
		return NilPtr, err
	}

	oldSize := a.UsableSize(ptr)
	if oldSize >= newSize {
		return ptr, nil
	}

	newPtr, err := a.Allocate(newSize)
	if err != nil {
		return NilPtr, err
	}

	mem := a.freeList.Memory()
	dst, src := int(newPtr), int(ptr)
	copy(mem[dst:dst+oldSize], mem[src:src+oldSize])
	a.Release(ptr)

	return newPtr, nil
}

// Release returns an allocation to the free list and merges it with any free memory it touches.
// Releasing NilPtr does nothing. Releasing a pointer that this allocator did not return, or
// releasing the same pointer twice, corrupts the heap.
func (a *Allocator) Release(ptr Ptr) {
	a.logger.Debug("Allocator::Release", slog.Int("Ptr", int(ptr)))

	if ptr == NilPtr {
		return
	}

	block := a.blockOf(ptr)
	a.freeList.Push(block)

	merged, err := a.freeList.Coalesce(block)
	if err != nil {
		panic(errors.Wrapf(err, "failed to release pointer %d", ptr))
	}
	a.allocationCount--

	a.logger.Debug("    Released", slog.Int("Block", merged), slog.Int("Size", a.freeList.Size(merged)))
}

// UsableSize returns the number of payload bytes available at ptr, which may be larger than the
// size that was requested. It returns 0 for NilPtr.
func (a *Allocator) UsableSize(ptr Ptr) int {
	if ptr == NilPtr {
		return 0
	}

	return a.freeList.Size(a.blockOf(ptr))
}

// Bytes returns the usable payload of an allocation. The slice shares memory with the heap and stays
// valid until ptr is released.
func (a *Allocator) Bytes(ptr Ptr) []byte {
	if ptr == NilPtr {
		return nil
	}

	size := a.freeList.Size(a.blockOf(ptr))
	start := int(ptr)
	return a.freeList.Memory()[start : start+size : start+size]
}

// AllocationCount returns the number of live allocations
func (a *Allocator) AllocationCount() int {
	return a.allocationCount
}

// HeapSize returns the number of bytes the heap region has granted so far
func (a *Allocator) HeapSize() int {
	return len(a.freeList.Memory())
}

// blockOf maps a payload pointer to its block header and panics if the pointer cannot possibly have
// come from this heap
func (a *Allocator) blockOf(ptr Ptr) int {
	heapLen := len(a.freeList.Memory())
	offset := int(ptr)

	if offset%Alignment != 0 || offset < freelist.HeaderSize || offset > heapLen {
		panic(errors.AssertionFailedf("pointer %d does not belong to a heap of %d bytes", offset, heapLen))
	}

	block := freelist.BlockOf(offset)
	if a.freeList.End(block) > heapLen {
		panic(errors.AssertionFailedf("pointer %d has a corrupted header", offset))
	}

	return block
}

// Validate performs internal consistency checks on the free list, the layout of the heap, and the
// allocator's own bookkeeping. It walks the whole heap and is expensive.
func (a *Allocator) Validate() error {
	return memutils.ValidateAll(a.freeList, validateFunc(a.validateAccounting))
}

type validateFunc func() error

func (f validateFunc) Validate() error { return f() }

func (a *Allocator) validateAccounting() error {
	if a.cursor != freelist.NoBlock && !a.freeList.Contains(a.cursor) {
		return errors.Errorf("the next-fit cursor refers to block %d, which is not free", a.cursor)
	}

	allocations := 0
	err := a.freeList.VisitAllRegions(func(offset int, size int, free bool) error {
		if !free {
			allocations++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if allocations != a.allocationCount {
		return errors.Errorf("the allocation count of the allocator is %d, but the heap holds %d allocated blocks", a.allocationCount, allocations)
	}

	return nil
}
