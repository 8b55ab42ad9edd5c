package models

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TransactionType string    `gorm:"size:20;not null;index" json:"transaction_type"`
	Amount          int64     `gorm:"not null" json:"amount"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AppointmentID   *uint     `json:"appointment_id"`

	PaymentMethod    string `gorm:"size:30;not null" json:"payment_method"`
	PaymentReference string `gorm:"size:100" json:"payment_reference"`
	PlatformFee      int64  `gorm:"not null" json:"platform_fee"`

	CreatedAt time.Time `json:"created_at"`
}
