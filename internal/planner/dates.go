package planner

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// TripWindow is the inclusive calendar span of a trip.
type TripWindow struct {
	DurationDays int
	Dates        []time.Time
	StartDate    time.Time
	EndDate      time.Time
}

// ExpandDateRange turns a YYYY-MM-DD start/end pair into every calendar day
// between them, both ends included.
func ExpandDateRange(startDate, endDate string) (TripWindow, error) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return TripWindow{}, fmt.Errorf("%w: start_date %q: expected YYYY-MM-DD", ErrInvalidDateRange, startDate)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return TripWindow{}, fmt.Errorf("%w: end_date %q: expected YYYY-MM-DD", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return TripWindow{}, fmt.Errorf("%w: end_date %s precedes start_date %s",
			ErrInvalidDateRange, end.Format(DateLayout), start.Format(DateLayout))
	}

	// AddDate walks calendar days so DST never produces gaps or duplicates.
	var dates []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}

	return TripWindow{
		DurationDays: len(dates),
		Dates:        dates,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// DateStrings renders the sequence as YYYY-MM-DD.
func (w TripWindow) DateStrings() []string {
	out := make([]string, 0, len(w.Dates))
	for _, d := range w.Dates {
		out = append(out, d.Format(DateLayout))
	}
	return out
}

func (w TripWindow) StartString() string { return w.StartDate.Format(DateLayout) }

func (w TripWindow) EndString() string { return w.EndDate.Format(DateLayout) }
