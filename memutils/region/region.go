// Package region provides the address-space growth primitives that back a heap. A Region hands out
// contiguous bytes starting at offset 0 and only ever grows: memory granted by Grow is never taken back.
package region

//go:generate mockgen -destination ./mocks/region.go . Region

// Region is a single growable range of bytes. Offsets returned by Grow are relative to the start of
// the range, and every call to Grow appends directly after the bytes granted by the previous call.
type Region interface {
	// Grow extends the region by delta bytes and returns the offset at which the new bytes begin.
	// If the region cannot be extended, it returns an error wrapping memutils.ErrOutOfMemory and
	// the region is unchanged.
	Grow(delta int) (int, error)
	// Bytes returns the committed memory of the region, from offset 0 to the growing edge. The
	// contents of newly granted bytes are unspecified.
	Bytes() []byte
}
