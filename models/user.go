package models

import (
	"time"

	"detailstudio-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a registered customer of the studio.
type Client struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"clientId"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        *string   `json:"phone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Password is hashed into PasswordHash on create and never stored.
	Password string `gorm:"-" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.PasswordHash, err = hashIfSet(c.Password, c.PasswordHash)
	return
}

const RoleSuperAdmin = "SuperAdmin"

// Admin is a back-office user. Role is always set.
type Admin struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"adminId"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'SuperAdmin'" json:"role"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Password string `gorm:"-" json:"-"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Role == "" {
		a.Role = RoleSuperAdmin
	}
	a.PasswordHash, err = hashIfSet(a.Password, a.PasswordHash)
	return
}

func hashIfSet(password, current string) (string, error) {
	if password == "" {
		return current, nil
	}
	return utils.HashPassword(password)
}
