package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// ErrOutOfMemory is returned when the heap region cannot be extended far enough to satisfy a request
var ErrOutOfMemory error = errors.New("out of memory")

// ErrSizeOverflow is returned when the byte size of a request cannot be represented as an int
var ErrSizeOverflow error = errors.New("requested size overflows the address space")

// ErrInvalidFreeList indicates that a free list operation was invoked against a block that the
// free list does not contain. It is a programmer error and is never expected at runtime.
var ErrInvalidFreeList error = errors.New("invalid free list state")
