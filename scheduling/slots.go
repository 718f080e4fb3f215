package scheduling

import (
	"fmt"
	"iter"
	"slices"
)

const DefaultStepMinutes = 30

// BusinessHours is the same-day window in which services can run.
type BusinessHours struct {
	Open  Clock
	Close Clock
}

// DefaultBusinessHours is 09:00-18:00.
var DefaultBusinessHours = BusinessHours{Open: 9 * 60, Close: 18 * 60}

func (h BusinessHours) Interval() Interval {
	return Interval{Start: h.Open, End: h.Close}
}

func (h BusinessHours) Validate() error {
	if err := h.Interval().Validate(); err != nil {
		return fmt.Errorf("business hours: %w", err)
	}
	return nil
}

// Generator enumerates candidate start times for a service on one day.
type Generator struct {
	Hours BusinessHours
	Step  int // minutes
}

// NewGenerator validates the window and falls back to a 30 minute step.
func NewGenerator(hours BusinessHours, step int) (Generator, error) {
	if err := hours.Validate(); err != nil {
		return Generator{}, err
	}
	if step <= 0 {
		step = DefaultStepMinutes
	}
	return Generator{Hours: hours, Step: step}, nil
}

// Candidates yields, in ascending order, every start time from opening in
// Step increments whose interval ends at or before closing and overlaps none
// of booked. The sequence can be ranged over any number of times.
//
// When duration is not a multiple of Step the usable window is rounded down:
// a 90 minute service in 09:00-18:00 gets 16:30 as its last start.
func (g Generator) Candidates(duration int, booked []Interval) iter.Seq[Clock] {
	return func(yield func(Clock) bool) {
		if duration <= 0 || g.Step <= 0 {
			return
		}
		for start := g.Hours.Open; start.Add(duration) <= g.Hours.Close; start = start.Add(g.Step) {
			candidate := Interval{Start: start, End: start.Add(duration)}
			if overlapsAny(candidate, booked) {
				continue
			}
			if !yield(start) {
				return
			}
		}
	}
}

// Available collects Candidates. A non-positive duration is an input error.
func (g Generator) Available(duration int, booked []Interval) ([]Clock, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInterval, duration)
	}
	slots := slices.Collect(g.Candidates(duration, booked))
	if slots == nil {
		slots = []Clock{}
	}
	return slots, nil
}

// Fits reports whether iv lies inside business hours.
func (g Generator) Fits(iv Interval) bool {
	return iv.Within(g.Hours.Interval())
}

// FormatSlots renders clocks as "HH:MM" strings.
func FormatSlots(slots []Clock) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func overlapsAny(iv Interval, others []Interval) bool {
	for _, o := range others {
		if Overlaps(iv, o) {
			return true
		}
	}
	return false
}
