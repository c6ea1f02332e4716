package memory

import "errors"

var (
	// ErrInvalidSize is returned for a zero or negative reservation
	ErrInvalidSize = errors.New("invalid region size")
	// ErrOutOfRange is returned when committing past the end of a reservation
	ErrOutOfRange = errors.New("size exceeds reservation")
	// ErrRegionFreed is returned when using a region after Free
	ErrRegionFreed = errors.New("region already freed")
)
