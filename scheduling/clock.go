// Package scheduling holds the booking calendar rules: time-of-day values,
// half-open intervals, slot enumeration and conflict detection.
package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the exclusive upper bound of a start time and the
	// inclusive upper bound of an end time.
	MinutesPerDay = 24 * 60

	// DateLayout is the canonical calendar date format.
	DateLayout = "2006-01-02"
)

var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a time of day in minutes since 00:00.
type Clock int

// ParseClock parses "HH:MM". "24:00" is accepted as an end-of-day bound.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for constants.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the clock as zero-padded "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add returns the clock shifted by the given number of minutes.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// Valid reports whether c lies within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c <= MinutesPerDay
}
