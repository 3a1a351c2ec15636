package alloc

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/nextfit/brkalloc/memutils/freelist"
	"github.com/nextfit/brkalloc/memutils/region"
	"golang.org/x/exp/slog"
)

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Strategy chooses where the search for a free block begins. The zero value is StrategyNextFit.
	Strategy AllocationStrategy

	// InitialHeapSize is a number of payload bytes to grow the heap by when the allocator is
	// created. The memory becomes a single free block, so that the first allocations can be made
	// without growing the heap. It is rounded up to Alignment. 0 leaves the heap empty.
	InitialHeapSize int
}

// New creates a new Allocator over the provided heap region. The region must be empty: the allocator
// assumes that it owns every byte the region grants, starting at offset 0.
//
// logger - Receives diagnostic output. A nil logger discards it.
//
// heap - The growth primitive that supplies raw memory
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, heap region.Region, options CreateOptions) (*Allocator, error) {
	if heap == nil {
		return nil, errors.New("an allocator requires a heap region")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if _, ok := allocationStrategyMapping[options.Strategy]; !ok {
		return nil, errors.Newf("unknown allocation strategy: %d", options.Strategy)
	}

	if options.InitialHeapSize < 0 {
		return nil, errors.Newf("invalid initial heap size: %d", options.InitialHeapSize)
	}

	allocator := &Allocator{
		logger:   logger,
		heap:     heap,
		strategy: options.Strategy,
		cursor:   freelist.NoBlock,
	}
	allocator.freeList = freelist.New(allocator.unlinked)

	if options.InitialHeapSize > 0 {
		size, err := alignRequest(options.InitialHeapSize)
		if err != nil {
			return nil, err
		}

		_, err = allocator.growHeap(size)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to reserve an initial heap of %d bytes", size)
		}
	}

	return allocator, nil
}
