// utils/dates.go
package utils

import (
	"time"

	"detailstudio-backend/scheduling"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DateString formats t as the booking calendar date.
func DateString(t time.Time) string {
	return BeginningOfDay(t).Format(scheduling.DateLayout)
}

// Tomorrow returns the calendar date after t in t's location.
func Tomorrow(t time.Time) string {
	return DateString(BeginningOfDay(t).AddDate(0, 0, 1))
}
