package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPipelineConfig = errors.New("invalid pipeline config")
	ErrStageExecutionFailed  = errors.New("stage execution failed")
	ErrCoverageGap           = errors.New("coverage gap")
)

// StageError reports which stage the capability failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{ErrStageExecutionFailed, e.Err}
}

// CoverageError lists the priority interests a finished itinerary never names.
type CoverageError struct {
	Missing []string
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("itinerary does not cover: %s", strings.Join(e.Missing, ", "))
}

func (e *CoverageError) Is(target error) bool {
	return target == ErrCoverageGap
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPipelineConfig, fmt.Sprintf(format, args...))
}
