package scheduling

import (
	"errors"
	"fmt"
)

// ErrSlotTaken is returned when a proposed interval overlaps an existing
// booking that still holds its slot.
var ErrSlotTaken = errors.New("time slot is already booked")

// Booked is an existing booking as seen by the conflict checker.
type Booked struct {
	ID       string
	Interval Interval
	Status   BookingStatus
}

// ConflictError names the booking a proposal collided with.
type ConflictError struct {
	Proposed Interval
	Existing Booked
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s overlaps booking %s at %s", e.Proposed, e.Existing.ID, e.Existing.Interval)
}

func (e *ConflictError) Unwrap() error { return ErrSlotTaken }

// CheckConflict decides whether proposed may be accepted against the same
// day's bookings. Cancelled bookings are ignored, as is the booking whose id
// equals exclude (used when re-validating an existing booking; pass "" otherwise).
func CheckConflict(proposed Interval, existing []Booked, exclude string) error {
	for _, b := range existing {
		if !b.Status.BlocksSlot() {
			continue
		}
		if exclude != "" && b.ID == exclude {
			continue
		}
		if Overlaps(proposed, b.Interval) {
			return &ConflictError{Proposed: proposed, Existing: b}
		}
	}
	return nil
}

// Blocking returns the intervals of bookings that still hold their slot.
func Blocking(existing []Booked) []Interval {
	out := make([]Interval, 0, len(existing))
	for _, b := range existing {
		if b.Status.BlocksSlot() {
			out = append(out, b.Interval)
		}
	}
	return out
}
