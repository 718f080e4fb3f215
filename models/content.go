package models

import (
	"time"

	"detailstudio-backend/scheduling"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryImage is a before/after showcase, optionally tied to a service.
type GalleryImage struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"imageId"`
	ServiceID       *uuid.UUID `gorm:"type:uuid;index" json:"serviceId"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	BeforeImageURLs StringList `gorm:"column:before_image_urls;type:text;not null" json:"beforeImageUrls"`
	AfterImageURLs  StringList `gorm:"column:after_image_urls;type:text;not null" json:"afterImageUrls"`
	CreatedAt       time.Time  `json:"createdAt"`

	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnDelete:SET NULL" json:"service,omitempty"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}

// Testimonial is hidden from the public site until Approved.
type Testimonial struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"testimonialId"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index" json:"clientId"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	Rating     *int       `json:"rating"`
	DatePosted time.Time  `gorm:"index" json:"datePosted"`
	Approved   bool       `gorm:"index;default:false" json:"approved"`
	ClientName *string    `json:"clientName"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.DatePosted.IsZero() {
		t.DatePosted = time.Now()
	}
	return
}

// Consultation is a contact-form request.
type Consultation struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primary_key" json:"consultationId"`
	Name      string                        `gorm:"not null" json:"name"`
	Email     string                        `gorm:"not null" json:"email"`
	Phone     *string                       `json:"phone"`
	Message   string                        `gorm:"type:text;not null" json:"message"`
	Status    scheduling.ConsultationStatus `gorm:"type:varchar(20);index;not null;default:'New'" json:"status"`
	CreatedAt time.Time                     `gorm:"index" json:"createdAt"`
}

func (c *Consultation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = scheduling.ConsultationNew
	}
	return
}
