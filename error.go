package flow

import "errors"

var (
	// ErrNotFound is returned when a graph lookup by name fails.
	ErrNotFound = errors.New("node not found")
	// ErrTypeMismatch is returned when pin element types are incompatible
	// at connect time.
	ErrTypeMismatch = errors.New("pin element types do not match")
	// ErrBadPin is returned when a pin index is out of range.
	ErrBadPin = errors.New("pin index out of range")
)
