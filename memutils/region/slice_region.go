package region

import (
	"github.com/bytedance/gopkg/lang/dirtmake"
	"github.com/cockroachdb/errors"
	"github.com/nextfit/brkalloc/memutils"
)

// SliceRegion is a Region backed by a single Go byte slice. The full capacity is reserved up front
// without being zeroed, and growth moves the end of the slice forward, so the address of every byte
// stays stable for the life of the region.
type SliceRegion struct {
	buf []byte
}

var _ Region = &SliceRegion{}

// NewSliceRegion reserves limit bytes. Growth beyond limit fails with memutils.ErrOutOfMemory.
func NewSliceRegion(limit int) *SliceRegion {
	if limit < 0 {
		limit = 0
	}

	return &SliceRegion{
		buf: dirtmake.Bytes(0, limit),
	}
}

func (r *SliceRegion) Grow(delta int) (int, error) {
	if delta < 0 {
		return 0, errors.Newf("cannot grow a region by a negative amount: %d", delta)
	}

	offset := len(r.buf)
	if delta > cap(r.buf)-offset {
		return 0, errors.Wrapf(memutils.ErrOutOfMemory, "region of %d bytes cannot grow by %d with a limit of %d", offset, delta, cap(r.buf))
	}

	r.buf = r.buf[:offset+delta]
	return offset, nil
}

func (r *SliceRegion) Bytes() []byte {
	return r.buf
}

// Limit returns the number of bytes the region may grow to
func (r *SliceRegion) Limit() int {
	return cap(r.buf)
}
