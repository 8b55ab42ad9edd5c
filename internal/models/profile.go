package models

import (
	"time"

	"github.com/google/uuid"
)

// One row per client, created by the terms step.
type ClientProfile struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	HasAcceptedTerms bool `gorm:"default:false" json:"has_accepted_terms"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HairdresserProfile struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	HasPaidRegistration bool       `gorm:"default:false" json:"has_paid_registration"`
	PaymentDate         *time.Time `json:"payment_date"`
	PaymentMethod       *string    `gorm:"size:30" json:"payment_method"`
	PaymentReference    *string    `gorm:"size:100" json:"payment_reference"`
	HasAcceptedTerms    bool       `gorm:"default:false" json:"has_accepted_terms"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
