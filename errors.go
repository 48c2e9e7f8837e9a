package provao

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned for negative counts and counts larger than
	// the source holds.
	ErrInvalidCount = errors.New("invalid record count")

	// ErrUnsupportedMethod is returned for unknown methods and for method 1,
	// which the original tool declares but never implemented.
	ErrUnsupportedMethod = errors.New("unsupported sort method")

	// ErrInvalidOrder is returned for unknown order selectors.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrNoSource is returned when no dataset source is configured and none
	// can be derived from the working store.
	ErrNoSource = errors.New("no dataset source configured")
)

// ErrCountOutOfRange indicates a request for more records than the source
// holds.
//
// It matches ErrInvalidCount with errors.Is.
type ErrCountOutOfRange struct {
	Requested int64
	Available int64
}

func (e *ErrCountOutOfRange) Error() string {
	return fmt.Sprintf("invalid record count: requested %d, source holds %d", e.Requested, e.Available)
}

func (e *ErrCountOutOfRange) Unwrap() error { return ErrInvalidCount }
