package memutils

import (
	"math"

	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// MulSize multiplies count by size, returning ErrSizeOverflow if either value is negative or
// the product cannot be represented as an int. A size of 0 always produces 0.
func MulSize(count, size int) (int, error) {
	if count < 0 || size < 0 {
		return 0, cerrors.Wrapf(ErrSizeOverflow, "negative size %d x %d", count, size)
	}

	if size == 0 {
		return 0, nil
	}

	if count > math.MaxInt/size {
		return 0, cerrors.Wrapf(ErrSizeOverflow, "%d x %d", count, size)
	}

	return count * size, nil
}
