package models

import (
	"fmt"
	"time"

	"detailstudio-backend/scheduling"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is an appointment for one service on one calendar day.
// EndTime is fixed at creation from the service duration and never recomputed.
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"bookingId"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"clientId"`
	ServiceID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"serviceId"`
	BookingDate string     `gorm:"type:varchar(10);index;not null" json:"bookingDate"` // YYYY-MM-DD
	StartTime   string     `gorm:"type:varchar(5);not null" json:"startTime"`          // HH:MM
	EndTime     string     `gorm:"type:varchar(5);not null" json:"endTime"`

	// copied from the service at booking time
	ServiceName  string  `gorm:"not null" json:"serviceName"`
	ServicePrice float64 `gorm:"type:decimal(10,2);not null" json:"servicePrice"`

	VehicleMake  *string                  `json:"vehicleMake"`
	VehicleModel *string                  `json:"vehicleModel"`
	Status       scheduling.BookingStatus `gorm:"type:varchar(20);index;not null;default:'Pending'" json:"status"`

	ClientName  *string `json:"clientName"`
	ClientEmail *string `json:"clientEmail"`
	ClientPhone *string `json:"clientPhone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT" json:"service,omitempty"`
	Client  *Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = scheduling.StatusPending
	}
	return
}

// Interval parses the stored start and end times.
func (b *Booking) Interval() (scheduling.Interval, error) {
	iv, err := scheduling.ParseInterval(b.StartTime, b.EndTime)
	if err != nil {
		return scheduling.Interval{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	return iv, nil
}

// Booked converts the record into the conflict checker's view.
func (b *Booking) Booked() (scheduling.Booked, error) {
	iv, err := b.Interval()
	if err != nil {
		return scheduling.Booked{}, err
	}
	return scheduling.Booked{ID: b.ID.String(), Interval: iv, Status: b.Status}, nil
}
