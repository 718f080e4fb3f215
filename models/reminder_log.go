// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderLog records one day-ahead reminder attempt for a booking.
type ReminderLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_booking_channel" json:"bookingId"`
	Channel      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_reminder_booking_channel" json:"channel"` // sms
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time `json:"sentAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
