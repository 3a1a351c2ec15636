package alloc

// AllocationStrategy selects where the search for a free block begins
type AllocationStrategy uint32

const (
	// StrategyNextFit resumes the search at the free block that followed the block handed out most
	// recently, wrapping around to the head of the free list before giving up. This is the default.
	StrategyNextFit AllocationStrategy = iota
	// StrategyFirstFit always searches from the head of the free list. It tends to reuse the same
	// region of the heap repeatedly, at the expense of rescanning small fragments on every request.
	StrategyFirstFit
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	StrategyNextFit:  "NextFit",
	StrategyFirstFit: "FirstFit",
}

func (s AllocationStrategy) String() string {
	str, ok := allocationStrategyMapping[s]
	if !ok {
		return "Unknown"
	}
	return str
}
