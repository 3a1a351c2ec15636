package freelist

import "encoding/binary"

const (
	// HeaderSize is the number of bytes of metadata that precede every block's payload
	HeaderSize = 16
	// NoBlock is the offset used to indicate the absence of a block, such as the end of the free list
	NoBlock = -1

	sizeField = 0
	nextField = 8
)

// Size returns the payload size in bytes of the block whose header begins at the provided offset
func (l *List) Size(block int) int {
	return int(binary.LittleEndian.Uint64(l.mem[block+sizeField:]))
}

func (l *List) setSize(block, size int) {
	binary.LittleEndian.PutUint64(l.mem[block+sizeField:], uint64(size))
}

// Next returns the block that follows the provided block in the free list, or NoBlock. The value is
// only meaningful while the block is free.
func (l *List) Next(block int) int {
	return int(int64(binary.LittleEndian.Uint64(l.mem[block+nextField:])))
}

func (l *List) setNext(block, next int) {
	binary.LittleEndian.PutUint64(l.mem[block+nextField:], uint64(int64(next)))
}

// End returns the offset immediately past the block's payload, where a physically contiguous block
// would begin
func (l *List) End(block int) int {
	return block + HeaderSize + l.Size(block)
}

// Payload returns the offset of the first payload byte of the block
func Payload(block int) int {
	return block + HeaderSize
}

// BlockOf returns the header offset of the block that owns the payload at the provided offset
func BlockOf(payload int) int {
	return payload - HeaderSize
}

// Format writes a fresh header at the provided offset describing an unlinked block with the provided
// payload size. The caller must ensure the header and payload lie within the attached memory.
func (l *List) Format(block, size int) {
	l.setSize(block, size)
	l.setNext(block, NoBlock)
}
