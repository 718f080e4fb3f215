package scheduling

import "fmt"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, st := range BookingStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

func (s BookingStatus) Valid() bool {
	_, err := ParseBookingStatus(string(s))
	return err == nil
}

// BlocksSlot reports whether a booking in this status occupies its interval.
// Cancelled bookings are kept for history but free their slot.
func (s BookingStatus) BlocksSlot() bool {
	return s != StatusCancelled
}

// Terminal reports whether s is an end state of the usual flow.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition allows any move between known statuses. Administrators may
// correct a status in either direction, including out of a terminal state.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	return s.Valid() && to.Valid()
}

// ConsultationStatus tracks how far a consultation request has been handled.
type ConsultationStatus string

const (
	ConsultationNew       ConsultationStatus = "New"
	ConsultationReviewed  ConsultationStatus = "Reviewed"
	ConsultationResponded ConsultationStatus = "Responded"
)

func ParseConsultationStatus(s string) (ConsultationStatus, error) {
	switch st := ConsultationStatus(s); st {
	case ConsultationNew, ConsultationReviewed, ConsultationResponded:
		return st, nil
	}
	return "", fmt.Errorf("unknown consultation status %q", s)
}
