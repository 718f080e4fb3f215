package services

import (
	"context"
	"errors"
	"fmt"

	"detailstudio-backend/metrics"
	"detailstudio-backend/models"
	"detailstudio-backend/scheduling"
	"detailstudio-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookingService owns slot availability and the booking lifecycle.
type BookingService struct {
	db        *gorm.DB
	generator scheduling.Generator
}

func NewBookingService(db *gorm.DB, generator scheduling.Generator) *BookingService {
	return &BookingService{db: db, generator: generator}
}

// CreateBookingInput is a validated booking request. ClientID is set from the
// request principal, never from the body.
type CreateBookingInput struct {
	ServiceID    uuid.UUID
	Date         string
	StartTime    string
	ClientID     *uuid.UUID
	VehicleMake  *string
	VehicleModel *string
	ClientName   *string
	ClientEmail  *string
	ClientPhone  *string
}

// AvailableSlots lists the bookable start times ("HH:MM") for a service on a date.
func (s *BookingService) AvailableSlots(ctx context.Context, date string, serviceID uuid.UUID) ([]string, error) {
	if !utils.ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	service, err := findService(ctx, s.db, serviceID)
	if err != nil {
		return nil, err
	}

	existing, err := bookedOn(ctx, s.db, date)
	if err != nil {
		return nil, err
	}

	slots, err := s.generator.Available(service.DurationMinutes, scheduling.Blocking(existing))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return scheduling.FormatSlots(slots), nil
}

// Create re-validates the requested slot and inserts a Pending booking. The
// read of the day's bookings and the insert run in one transaction that is
// serialized per date.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if !utils.ValidDate(in.Date) {
		return nil, fmt.Errorf("%w: bookingDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	start, err := scheduling.ParseClock(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var booking *models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDate(tx, in.Date); err != nil {
			return err
		}

		service, err := findService(ctx, tx, in.ServiceID)
		if err != nil {
			return err
		}

		proposed, err := scheduling.NewInterval(start, service.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !s.generator.Fits(proposed) {
			return fmt.Errorf("%w: %s is outside business hours", ErrInvalidInput, proposed)
		}

		existing, err := bookedOn(ctx, tx, in.Date)
		if err != nil {
			return err
		}
		if err := scheduling.CheckConflict(proposed, existing, ""); err != nil {
			return err
		}

		booking = &models.Booking{
			ClientID:     in.ClientID,
			ServiceID:    service.ID,
			BookingDate:  in.Date,
			StartTime:    proposed.Start.String(),
			EndTime:      proposed.End.String(),
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			VehicleMake:  in.VehicleMake,
			VehicleModel: in.VehicleModel,
			Status:       scheduling.StatusPending,
			ClientName:   in.ClientName,
			ClientEmail:  in.ClientEmail,
			ClientPhone:  in.ClientPhone,
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		booking.Service = service
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.IncBookingConflict()
			zap.L().Info("booking rejected", zap.String("date", in.Date), zap.Error(err))
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	zap.L().Info("booking created",
		zap.String("bookingId", booking.ID.String()),
		zap.String("date", booking.BookingDate),
		zap.String("start", booking.StartTime),
		zap.String("end", booking.EndTime),
	)
	return booking, nil
}

// UpdateStatus sets a booking's status. Any transition is allowed, but a
// cancelled booking can only take its slot back if the slot is still free.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Booking, error) {
	next, err := scheduling.ParseBookingStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var booking models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %s: %w", id, ErrNotFound)
			}
			return err
		}
		if !booking.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidInput, booking.Status, next)
		}

		if !booking.Status.BlocksSlot() && next.BlocksSlot() {
			if err := lockDate(tx, booking.BookingDate); err != nil {
				return err
			}
			self, err := booking.Booked()
			if err != nil {
				return err
			}
			existing, err := bookedOn(ctx, tx, booking.BookingDate)
			if err != nil {
				return err
			}
			if err := scheduling.CheckConflict(self.Interval, existing, self.ID); err != nil {
				return err
			}
		}

		booking.Status = next
		return tx.Model(&booking).Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingStatusChange(string(next))
	return &booking, nil
}

// ListAll returns every booking, newest date first, with service and client.
func (s *BookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Service.Category").
		Preload("Client").
		Order("booking_date DESC, start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListForClient returns a client's own bookings.
func (s *BookingService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Service.Category").
		Where("client_id = ?", clientID).
		Order("booking_date DESC, start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func findService(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &service, nil
}

// bookedOn finds the bookings on date that still hold their slot.
func bookedOn(ctx context.Context, db *gorm.DB, date string) ([]scheduling.Booked, error) {
	var bookings []models.Booking
	err := db.WithContext(ctx).
		Where("booking_date = ? AND status <> ?", date, scheduling.StatusCancelled).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("bookings on %s: %w", date, err)
	}

	out := make([]scheduling.Booked, 0, len(bookings))
	for i := range bookings {
		b, err := bookings[i].Booked()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// lockDate serializes booking writes for one date until the transaction ends.
// SQLite runs on a single connection and needs no lock.
func lockDate(tx *gorm.DB, date string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "booking:"+date).Error; err != nil {
		return fmt.Errorf("lock %s: %w", date, err)
	}
	return nil
}
