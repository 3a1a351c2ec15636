//go:build linux || darwin

package region

import (
	"github.com/cockroachdb/errors"
	"github.com/nextfit/brkalloc/memutils"
	"golang.org/x/sys/unix"
)

// MmapRegion is a Region that behaves like a program break. It reserves a range of address space
// without access rights and commits whole pages read/write as the growing edge moves across them.
type MmapRegion struct {
	mem       []byte
	length    int
	committed int
	pageSize  int
}

var _ Region = &MmapRegion{}

// NewMmapRegion reserves limit bytes of address space, rounded up to the page size. No memory is
// committed until the region grows.
func NewMmapRegion(limit int) (*MmapRegion, error) {
	if limit <= 0 {
		return nil, errors.Newf("invalid region limit: %d", limit)
	}

	pageSize := unix.Getpagesize()
	if err := memutils.CheckPow2(pageSize, "page size"); err != nil {
		return nil, err
	}
	reserve := memutils.AlignUp(limit, uint(pageSize))

	mem, err := unix.Mmap(-1, 0, reserve, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reserve %d bytes of address space", reserve)
	}

	return &MmapRegion{
		mem:      mem,
		pageSize: pageSize,
	}, nil
}

func (r *MmapRegion) Grow(delta int) (int, error) {
	if r.mem == nil {
		return 0, errors.New("region has been closed")
	}
	if delta < 0 {
		return 0, errors.Newf("cannot grow a region by a negative amount: %d", delta)
	}

	offset := r.length
	if delta > len(r.mem)-offset {
		return 0, errors.Wrapf(memutils.ErrOutOfMemory, "region of %d bytes cannot grow by %d with a reservation of %d", offset, delta, len(r.mem))
	}

	newLength := offset + delta
	if newLength > r.committed {
		commitEnd := memutils.AlignUp(newLength, uint(r.pageSize))
		if commitEnd > len(r.mem) {
			commitEnd = len(r.mem)
		}

		err := unix.Mprotect(r.mem[r.committed:commitEnd], unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			return 0, errors.Wrapf(memutils.ErrOutOfMemory, "failed to commit pages [%d, %d): %v", r.committed, commitEnd, err)
		}
		r.committed = commitEnd
	}

	r.length = newLength
	return offset, nil
}

func (r *MmapRegion) Bytes() []byte {
	return r.mem[:r.length]
}

// Committed returns the number of bytes that are currently readable and writable. It is always the
// region length rounded up to a whole page.
func (r *MmapRegion) Committed() int {
	return r.committed
}

// Close releases the reservation. Every slice previously returned by Bytes becomes invalid.
func (r *MmapRegion) Close() error {
	if r.mem == nil {
		return nil
	}

	err := unix.Munmap(r.mem)
	r.mem = nil
	r.length = 0
	r.committed = 0
	return err
}
