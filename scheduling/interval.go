package scheduling

import (
	"errors"
	"fmt"
)

var ErrInvalidInterval = errors.New("invalid interval")

// Interval is a half-open time range [Start, End) within one day.
// Overnight ranges are not representable.
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval builds the interval starting at start and lasting duration minutes.
func NewInterval(start Clock, duration int) (Interval, error) {
	if duration <= 0 {
		return Interval{}, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInterval, duration)
	}
	iv := Interval{Start: start, End: start.Add(duration)}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// ParseInterval builds an interval from two "HH:MM" strings.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	iv := Interval{Start: s, End: e}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate checks 0 <= Start < End <= 24:00.
func (iv Interval) Validate() error {
	if iv.Start < 0 || iv.Start >= MinutesPerDay {
		return fmt.Errorf("%w: start %s out of day", ErrInvalidInterval, iv.Start)
	}
	if iv.End > MinutesPerDay {
		return fmt.Errorf("%w: %s-%s crosses midnight", ErrInvalidInterval, iv.Start, iv.End)
	}
	if iv.Start >= iv.End {
		return fmt.Errorf("%w: start %s not before end %s", ErrInvalidInterval, iv.Start, iv.End)
	}
	return nil
}

// Minutes returns the length of the interval.
func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

// Within reports whether iv lies entirely inside outer.
func (iv Interval) Within(outer Interval) bool {
	return iv.Start >= outer.Start && iv.End <= outer.End
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// Overlaps is the only conflict predicate: both slot offers and booking
// acceptance go through it.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}
