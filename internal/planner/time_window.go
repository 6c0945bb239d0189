package planner

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "22:00"

	clockLayout = "15:04"
)

// TimeWindow is the daily span activities may be scheduled in.
type TimeWindow struct {
	Start string
	End   string
}

// ParseTimeWindow applies the default 09:00-22:00 window for blank values and
// rejects windows that are malformed or do not move forward.
func ParseTimeWindow(start, end string) (TimeWindow, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" {
		start = DefaultStartTime
	}
	if end == "" {
		end = DefaultEndTime
	}

	from, err := time.Parse(clockLayout, start)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%w: start_time %q: expected HH:MM", ErrInvalidTimeWindow, start)
	}
	to, err := time.Parse(clockLayout, end)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%w: end_time %q: expected HH:MM", ErrInvalidTimeWindow, end)
	}
	if !from.Before(to) {
		return TimeWindow{}, fmt.Errorf("%w: start_time %s must be before end_time %s", ErrInvalidTimeWindow, start, end)
	}

	return TimeWindow{Start: from.Format(clockLayout), End: to.Format(clockLayout)}, nil
}

func (w TimeWindow) String() string { return w.Start + "-" + w.End }
