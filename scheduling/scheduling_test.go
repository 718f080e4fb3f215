package scheduling

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(start, end string) Interval {
	return Interval{Start: MustClock(start), End: MustClock(end)}
}

func defaultGenerator(t *testing.T) Generator {
	t.Helper()
	g, err := NewGenerator(DefaultBusinessHours, 30)
	require.NoError(t, err)
	return g
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", 540, false},
		{"9:30", 570, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:30", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"ab:cd", 0, true},
		{"10:5", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "09:05", Clock(545).String())
}

func TestNewInterval(t *testing.T) {
	got, err := NewInterval(MustClock("10:30"), 60)
	require.NoError(t, err)
	assert.Equal(t, iv("10:30", "11:30"), got)
	assert.Equal(t, 60, got.Minutes())

	_, err = NewInterval(MustClock("23:30"), 60)
	assert.ErrorIs(t, err, ErrInvalidInterval, "overnight wraparound is rejected")

	_, err = NewInterval(MustClock("10:00"), 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = ParseInterval("11:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", iv("10:00", "11:00"), iv("10:00", "11:00"), true},
		{"partial tail", iv("10:30", "11:30"), iv("10:00", "11:00"), true},
		{"contained", iv("10:15", "10:45"), iv("10:00", "11:00"), true},
		{"adjacent after", iv("11:00", "12:00"), iv("10:00", "11:00"), false},
		{"adjacent before", iv("09:00", "10:00"), iv("10:00", "11:00"), false},
		{"disjoint", iv("13:00", "14:00"), iv("10:00", "11:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	random := func() Interval {
		start := Clock(r.Intn(MinutesPerDay - 1))
		end := start + Clock(1+r.Intn(MinutesPerDay-int(start)))
		return Interval{Start: start, End: end}
	}

	for i := 0; i < 5000; i++ {
		a, b := random(), random()
		require.Equal(t, Overlaps(a, b), Overlaps(b, a), "a=%s b=%s", a, b)
	}
}

func TestGeneratorNoBookings(t *testing.T) {
	g := defaultGenerator(t)

	slots, err := g.Available(60, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	formatted := FormatSlots(slots)
	assert.Equal(t, "09:00", formatted[0])
	assert.Equal(t, "17:00", formatted[len(formatted)-1])
	assert.Len(t, formatted, 17)
}

func TestGeneratorExcludesOverlappingCandidates(t *testing.T) {
	g := defaultGenerator(t)
	booked := Blocking([]Booked{{ID: "b1", Interval: iv("10:00", "11:00"), Status: StatusConfirmed}})

	slots, err := g.Available(60, booked)
	require.NoError(t, err)
	formatted := FormatSlots(slots)

	assert.NotContains(t, formatted, "10:00")
	assert.NotContains(t, formatted, "10:30")
	assert.NotContains(t, formatted, "09:30")
	assert.Contains(t, formatted, "09:00")
	assert.Contains(t, formatted, "11:00")
}

func TestGeneratorIgnoresCancelledBookings(t *testing.T) {
	g := defaultGenerator(t)
	existing := []Booked{{ID: "b1", Interval: iv("10:00", "11:00"), Status: StatusCancelled}}

	withCancelled, err := g.Available(60, Blocking(existing))
	require.NoError(t, err)
	empty, err := g.Available(60, nil)
	require.NoError(t, err)

	assert.Equal(t, empty, withCancelled)
}

func TestGeneratorRoundsWindowDown(t *testing.T) {
	g := defaultGenerator(t)

	slots, err := g.Available(90, nil)
	require.NoError(t, err)
	assert.Equal(t, "16:30", slots[len(slots)-1].String())

	for _, duration := range []int{15, 45, 60, 75, 90, 100, 240, 540} {
		slots, err := g.Available(duration, nil)
		require.NoError(t, err)
		for _, s := range slots {
			assert.LessOrEqual(t, s.Add(duration), g.Hours.Close, "duration %d start %s", duration, s)
		}
	}
}

func TestGeneratorEdgeCases(t *testing.T) {
	g := defaultGenerator(t)

	slots, err := g.Available(600, nil)
	require.NoError(t, err)
	assert.Empty(t, slots, "longer than the whole day")

	slots, err = g.Available(540, nil)
	require.NoError(t, err)
	assert.Equal(t, []Clock{MustClock("09:00")}, slots)

	_, err = g.Available(0, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewGenerator(BusinessHours{Open: MustClock("18:00"), Close: MustClock("09:00")}, 30)
	assert.Error(t, err)

	fallback, err := NewGenerator(DefaultBusinessHours, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultStepMinutes, fallback.Step)
}

func TestGeneratorIsIdempotentAndRestartable(t *testing.T) {
	g := defaultGenerator(t)
	booked := []Interval{iv("12:00", "13:30")}

	first, err := g.Available(60, booked)
	require.NoError(t, err)
	second, err := g.Available(60, booked)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seq := g.Candidates(60, booked)
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))
	assert.True(t, slices.IsSorted(first))

	// early stop
	var firstTwo []Clock
	for c := range seq {
		firstTwo = append(firstTwo, c)
		if len(firstTwo) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], firstTwo)
}

func TestCheckConflict(t *testing.T) {
	existing := []Booked{
		{ID: "confirmed", Interval: iv("10:00", "11:00"), Status: StatusConfirmed},
		{ID: "cancelled", Interval: iv("14:00", "15:00"), Status: StatusCancelled},
	}

	err := CheckConflict(iv("10:30", "11:30"), existing, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotTaken)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "confirmed", ce.Existing.ID)

	assert.NoError(t, CheckConflict(iv("11:00", "12:00"), existing, ""), "adjacent is fine")
	assert.NoError(t, CheckConflict(iv("14:00", "15:00"), existing, ""), "cancelled frees the slot")
	assert.NoError(t, CheckConflict(iv("10:00", "11:00"), existing, "confirmed"), "own booking excluded")
}

// Books random requests through the checker and verifies the day never holds
// two overlapping slot-holding bookings.
func TestAcceptedBookingsNeverOverlap(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	g := defaultGenerator(t)
	durations := []int{30, 45, 60, 90, 120}

	var day []Booked
	for i := 0; i < 400; i++ {
		duration := durations[r.Intn(len(durations))]
		start := g.Hours.Open.Add(15 * r.Intn(36))
		proposed, err := NewInterval(start, duration)
		if err != nil || !g.Fits(proposed) {
			continue
		}
		if CheckConflict(proposed, day, "") != nil {
			continue
		}
		status := StatusPending
		if r.Intn(5) == 0 {
			status = StatusCancelled
		}
		day = append(day, Booked{ID: proposed.String(), Interval: proposed, Status: status})
	}

	blocking := Blocking(day)
	require.NotEmpty(t, blocking)
	for i := range blocking {
		for j := i + 1; j < len(blocking); j++ {
			assert.False(t, Overlaps(blocking[i], blocking[j]), "%s vs %s", blocking[i], blocking[j])
		}
	}
}

func TestBookingStatus(t *testing.T) {
	st, err := ParseBookingStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseBookingStatus("confirmed")
	assert.Error(t, err)

	for _, from := range BookingStatuses {
		for _, to := range BookingStatuses {
			assert.True(t, from.CanTransition(to), "%s -> %s", from, to)
		}
		assert.Equal(t, from != StatusCancelled, from.BlocksSlot())
	}
	assert.False(t, StatusPending.CanTransition("Archived"))
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusConfirmed.Terminal())

	_, err = ParseConsultationStatus("Reviewed")
	assert.NoError(t, err)
	_, err = ParseConsultationStatus("Closed")
	assert.Error(t, err)
}
