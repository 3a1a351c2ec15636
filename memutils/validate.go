package memutils

import cerrors "github.com/cockroachdb/errors"

// Validatable is implemented by every structure that can check its own internal consistency
type Validatable interface {
	Validate() error
}

// ValidateAll calls Validate on each of the provided objects and combines every error returned.
// It returns nil when all of them are consistent.
func ValidateAll(validatables ...Validatable) error {
	var err error
	for _, v := range validatables {
		err = cerrors.CombineErrors(err, v.Validate())
	}

	return err
}
