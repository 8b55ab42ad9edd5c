package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Email           string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName       string  `gorm:"size:100;not null" json:"first_name"`
	LastName        string  `gorm:"size:100;not null" json:"last_name"`
	PhoneNumber     *string `gorm:"size:20" json:"phone_number"`
	UserType        string  `gorm:"size:20;not null" json:"user_type"`
	ProfileImageURL *string `gorm:"size:512" json:"profile_image_url"`
	IsApproved      bool    `gorm:"default:false" json:"is_approved"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
