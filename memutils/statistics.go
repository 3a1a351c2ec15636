package memutils

import "math"

// Statistics summarizes the occupancy of a heap region
type Statistics struct {
	// BlockCount is the number of blocks, free or allocated, that tile the heap
	BlockCount int
	// AllocationCount is the number of live allocations
	AllocationCount int
	// HeapBytes is the number of bytes granted by the growth primitive so far
	HeapBytes int
	// AllocationBytes is the sum of the payload sizes of live allocations
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.AllocationCount = 0
	s.HeapBytes = 0
	s.AllocationBytes = 0
}

// HeaderBytes returns the number of heap bytes consumed by block headers rather than payloads,
// given the size of a single header.
func (s *Statistics) HeaderBytes(headerSize int) int {
	return s.BlockCount * headerSize
}

type DetailedStatistics struct {
	Statistics
	UnusedRangeCount   int
	UnusedBytes        int
	AllocationSizeMin  int
	AllocationSizeMax  int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.UnusedRangeCount = 0
	s.UnusedBytes = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.UnusedRangeSizeMin = math.MaxInt
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.BlockCount++
	s.UnusedRangeCount++
	s.UnusedBytes += size

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.BlockCount++
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

// Fragmentation returns the share of unused bytes that lie outside the largest unused range, from
// 0 (all free memory is one range) to just under 1. It returns 0 when there is no unused memory.
func (s *DetailedStatistics) Fragmentation() float64 {
	if s.UnusedBytes == 0 {
		return 0
	}

	return 1 - float64(s.UnusedRangeSizeMax)/float64(s.UnusedBytes)
}
