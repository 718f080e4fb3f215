package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"detailstudio-backend/config"
	"detailstudio-backend/models"
	"detailstudio-backend/scheduling"
	"detailstudio-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testDate = "2025-06-10"

func init() {
	utils.BcryptCost = bcrypt.MinCost
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedService(t *testing.T, db *gorm.DB, name string, minutes int) models.Service {
	t.Helper()
	service := models.Service{Name: name, Price: 120, DurationMinutes: minutes}
	require.NoError(t, db.Create(&service).Error)
	return service
}

func newTestBookingService(db *gorm.DB) *BookingService {
	return NewBookingService(db, scheduling.Generator{Hours: scheduling.DefaultBusinessHours, Step: scheduling.DefaultStepMinutes})
}

func book(t *testing.T, s *BookingService, serviceID uuid.UUID, start string) *models.Booking {
	t.Helper()
	b, err := s.Create(context.Background(), CreateBookingInput{ServiceID: serviceID, Date: testDate, StartTime: start})
	require.NoError(t, err)
	return b
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Hand Wash", 60)
	s := newTestBookingService(db)

	slots, err := s.AvailableSlots(context.Background(), testDate, service.ID)
	require.NoError(t, err)
	require.Len(t, slots, 17)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "17:00", slots[len(slots)-1])
}

func TestCreateBookingBlocksOverlappingSlots(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Interior Detail", 60)
	s := newTestBookingService(db)

	booking := book(t, s, service.ID, "10:00")
	assert.Equal(t, "10:00", booking.StartTime)
	assert.Equal(t, "11:00", booking.EndTime)
	assert.Equal(t, scheduling.StatusPending, booking.Status)
	assert.Equal(t, "Interior Detail", booking.ServiceName)
	assert.Equal(t, 120.0, booking.ServicePrice)
	assert.Nil(t, booking.ClientID)

	slots, err := s.AvailableSlots(context.Background(), testDate, service.ID)
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00")
	assert.Contains(t, slots, "11:00")
	assert.NotContains(t, slots, "09:30")
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")

	other, err := s.AvailableSlots(context.Background(), "2025-06-11", service.ID)
	require.NoError(t, err)
	assert.Contains(t, other, "10:00", "bookings only block their own date")
}

func TestCreateBookingConflict(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Ceramic Coating", 60)
	s := newTestBookingService(db)

	first := book(t, s, service.ID, "10:00")

	_, err := s.Create(context.Background(), CreateBookingInput{ServiceID: service.ID, Date: testDate, StartTime: "10:30"})
	require.ErrorIs(t, err, ErrSlotTaken)

	var conflict *scheduling.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID.String(), conflict.Existing.ID)

	// back-to-back is fine
	book(t, s, service.ID, "11:00")
	book(t, s, service.ID, "09:00")
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Polish", 60)
	s := newTestBookingService(db)
	ctx := context.Background()

	first := book(t, s, service.ID, "10:00")

	cancelled, err := s.UpdateStatus(ctx, first.ID, "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusCancelled, cancelled.Status)

	slots, err := s.AvailableSlots(ctx, testDate, service.ID)
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")

	book(t, s, service.ID, "10:00")

	// the slot went to someone else, so the cancelled booking cannot come back
	_, err = s.UpdateStatus(ctx, first.ID, "Confirmed")
	assert.ErrorIs(t, err, ErrSlotTaken)

	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, scheduling.StatusCancelled, stored.Status)
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Wash", 60)
	s := newTestBookingService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateBookingInput
		wantErr error
	}{
		{"bad date", CreateBookingInput{ServiceID: service.ID, Date: "10/06/2025", StartTime: "10:00"}, ErrInvalidInput},
		{"impossible date", CreateBookingInput{ServiceID: service.ID, Date: "2025-02-30", StartTime: "10:00"}, ErrInvalidInput},
		{"bad time", CreateBookingInput{ServiceID: service.ID, Date: testDate, StartTime: "10am"}, ErrInvalidInput},
		{"unknown service", CreateBookingInput{ServiceID: uuid.New(), Date: testDate, StartTime: "10:00"}, ErrNotFound},
		{"past closing", CreateBookingInput{ServiceID: service.ID, Date: testDate, StartTime: "17:30"}, ErrInvalidInput},
		{"before opening", CreateBookingInput{ServiceID: service.ID, Date: testDate, StartTime: "08:00"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	assert.Zero(t, count)
}

func TestAvailableSlotsErrors(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Wash", 60)
	s := newTestBookingService(db)

	_, err := s.AvailableSlots(context.Background(), "tomorrow", service.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.AvailableSlots(context.Background(), testDate, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	long := seedService(t, db, "Full Restoration", 600)
	slots, err := s.AvailableSlots(context.Background(), testDate, long.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestConcurrentCreatesOnlyOneWins(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Detail", 90)
	s := newTestBookingService(db)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(context.Background(), CreateBookingInput{ServiceID: service.ID, Date: testDate, StartTime: "13:00"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	var count int64
	db.Model(&models.Booking{}).Where("booking_date = ?", testDate).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStoredBookingsNeverOverlap(t *testing.T) {
	db := newTestDB(t)
	short := seedService(t, db, "Quick Wash", 30)
	long := seedService(t, db, "Paint Correction", 150)
	s := newTestBookingService(db)
	ctx := context.Background()

	starts := []string{"09:00", "09:30", "10:00", "11:00", "11:30", "12:00", "13:30", "14:00", "15:00", "16:30"}
	for i, start := range starts {
		serviceID := short.ID
		if i%2 == 0 {
			serviceID = long.ID
		}
		_, err := s.Create(ctx, CreateBookingInput{ServiceID: serviceID, Date: testDate, StartTime: start})
		if err != nil {
			require.ErrorIs(t, err, ErrSlotTaken)
		}
	}

	var stored []models.Booking
	require.NoError(t, db.Where("booking_date = ?", testDate).Find(&stored).Error)
	require.NotEmpty(t, stored)
	for i := range stored {
		for j := i + 1; j < len(stored); j++ {
			a, err := stored[i].Interval()
			require.NoError(t, err)
			b, err := stored[j].Interval()
			require.NoError(t, err)
			assert.False(t, scheduling.Overlaps(a, b), "%s overlaps %s", a, b)
		}
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Wash", 60)
	s := newTestBookingService(db)
	booking := book(t, s, service.ID, "09:00")

	_, err := s.UpdateStatus(context.Background(), booking.ID, "Done")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateStatus(context.Background(), uuid.New(), "Confirmed")
	assert.ErrorIs(t, err, ErrNotFound)

	// permissive: completed can go back to pending
	_, err = s.UpdateStatus(context.Background(), booking.ID, "Completed")
	require.NoError(t, err)
	updated, err := s.UpdateStatus(context.Background(), booking.ID, "Pending")
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusPending, updated.Status)
}

func TestListBookings(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "Wash", 60)
	s := newTestBookingService(db)
	ctx := context.Background()

	client := models.Client{Name: "Ann", Email: "ann@example.com", Password: "secret1"}
	require.NoError(t, db.Create(&client).Error)

	_, err := s.Create(ctx, CreateBookingInput{ServiceID: service.ID, Date: testDate, StartTime: "09:00", ClientID: &client.ID})
	require.NoError(t, err)
	book(t, s, service.ID, "12:00")

	own, err := s.ListForClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "09:00", own[0].StartTime)
	require.NotNil(t, own[0].Service)
	assert.Equal(t, "Wash", own[0].Service.Name)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
