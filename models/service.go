package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"categoryId"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

type Service struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"serviceId"`
	Name            string     `gorm:"not null" json:"name"`
	Description     *string    `json:"description"`
	Price           float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMinutes int        `gorm:"not null" json:"durationMinutes"`
	CategoryID      *uuid.UUID `gorm:"type:uuid;index" json:"categoryId"`
	ImageURL        *string    `json:"imageUrl"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
