/*
errors.go - Centralized error types for the pay engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculators themselves are total functions and return zero values
  for empty input; errors exist only for caller contract violations
  (malformed dates, impossible months, unparseable clocks) and for the
  storage and aggregate layers.

ERROR CATEGORIES:
  1. Input errors - Malformed dates, clocks, shifts, months
  2. Aggregate errors - Removing a day that was never accumulated
  3. Store errors - Missing records

USAGE:
    if errors.Is(err, generic.ErrInvalidDate) {
        // caller bug: reject the request
    }

SEE ALSO:
  - time.go: Parsers returning these errors
  - pay/aggregate.go: DayNotAccumulatedError
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string is not yyyy-MM-dd.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonth is returned for month numbers outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidClock is returned when a clock value is not HH:MM.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrInvalidShift is returned for shifts that start outside the day or
	// last longer than a day.
	ErrInvalidShift = errors.New("invalid shift")

	// ErrInvalidStatus is returned for an unknown day status.
	ErrInvalidStatus = errors.New("invalid day status")

	// ErrInvalidDayType is returned for an unknown day type.
	ErrInvalidDayType = errors.New("invalid day type")

	// ErrDayNotAccumulated is returned when removing a day that the month
	// aggregate never received.
	ErrDayNotAccumulated = errors.New("day not accumulated")

	// ErrRateScheduleNotFound is returned when no rate schedule of a kind exists.
	ErrRateScheduleNotFound = errors.New("rate schedule not found")

	// ErrInvalidRateSchedule is returned for malformed rate schedules.
	ErrInvalidRateSchedule = errors.New("invalid rate schedule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDateError reports the offending date string.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected yyyy-MM-dd", e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// DayNotAccumulatedError reports which date was missing from the aggregate.
type DayNotAccumulatedError struct {
	Date string
}

func (e *DayNotAccumulatedError) Error() string {
	return fmt.Sprintf("day %s was never accumulated into the month", e.Date)
}

func (e *DayNotAccumulatedError) Unwrap() error {
	return ErrDayNotAccumulated
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidClock) ||
		errors.Is(err, ErrInvalidShift) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidDayType) ||
		errors.Is(err, ErrDayNotAccumulated) ||
		errors.Is(err, ErrInvalidRateSchedule)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRateScheduleNotFound)
}
