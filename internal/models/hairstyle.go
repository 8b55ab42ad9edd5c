package models

import (
	"time"

	"github.com/google/uuid"
)

// Hairstyle is a catalog entry. Price is the default price in FCFA.
type Hairstyle struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	ImageURL    string `gorm:"size:512" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
}

type HairdresserHairstyle struct {
	ID uint `gorm:"primaryKey" json:"id"`

	HairdresserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:hairdresser_hairstyle_unique" json:"hairdresser_id"`
	Hairdresser   User      `gorm:"foreignKey:HairdresserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	HairstyleID uint      `gorm:"not null;uniqueIndex:hairdresser_hairstyle_unique" json:"hairstyle_id"`
	Hairstyle   Hairstyle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Price           int64    `gorm:"not null" json:"price"`
	PortfolioImages []string `gorm:"serializer:json" json:"portfolio_images"`

	CreatedAt time.Time `json:"created_at"`
}
