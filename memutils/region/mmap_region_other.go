//go:build !linux && !darwin

package region

import "github.com/cockroachdb/errors"

// MmapRegion is only available on linux and darwin
type MmapRegion struct{}

var _ Region = &MmapRegion{}

func NewMmapRegion(limit int) (*MmapRegion, error) {
	return nil, errors.New("mmap regions are not supported on this platform")
}

func (r *MmapRegion) Grow(delta int) (int, error) {
	return 0, errors.New("mmap regions are not supported on this platform")
}

func (r *MmapRegion) Bytes() []byte { return nil }

func (r *MmapRegion) Committed() int { return 0 }

func (r *MmapRegion) Close() error { return nil }
