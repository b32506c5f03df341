// Package param holds the shared invalid-parameter error used by the
// wrapstudio packages.
package param

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every error caused by a caller-supplied value
// outside its accepted range.
var ErrInvalid = errors.New("invalid parameter")

// Invalid returns an error wrapping ErrInvalid.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Positive fails unless v > 0.
func Positive(name string, v float64) error {
	if !(v > 0) {
		return Invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

// InRange fails unless lo <= v <= hi.
func InRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || v != v {
		return Invalid("%s must be in [%v, %v], got %v", name, lo, hi, v)
	}
	return nil
}
