package allocation

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRangePeriod marks a year outside the 2003-2018 coverage.
	ErrOutOfRangePeriod = errors.New("period outside covered range")

	// ErrUnmappedCounty marks counties absent from both the allocation
	// crosswalk and the override table. Aborting beats silently dropping
	// their employment.
	ErrUnmappedCounty = errors.New("county missing from allocation crosswalk and override table")
)

// ConservationError reports a post-reallocation total diverging from the
// reference total for one (category, period) cell. It indicates a defect in
// the crosswalk data or joins, never a recoverable condition.
type ConservationError struct {
	Category string
	Year     int
	Before   float64
	After    float64
}

func (e *ConservationError) Error() string {
	return fmt.Sprintf("employment not conserved for category %s year %d: %.6f before reallocation, %.6f after",
		e.Category, e.Year, e.Before, e.After)
}
