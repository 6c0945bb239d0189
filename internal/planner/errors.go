package planner

import "errors"

var (
	ErrInvalidDateRange        = errors.New("invalid date range")
	ErrInvalidTimeWindow error = &timeWindowError{}
)

// timeWindowError is reported for bad daily windows. It also matches
// ErrInvalidDateRange so callers that only know about date ranges still
// reject it before any stage runs.
type timeWindowError struct{}

func (e *timeWindowError) Error() string { return "invalid time window" }

func (e *timeWindowError) Is(target error) bool {
	return target == ErrInvalidDateRange
}
