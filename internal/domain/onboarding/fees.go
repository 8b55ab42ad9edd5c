package onboarding

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// AppointmentCommissionPercent is the share of an appointment amount the
// platform keeps. The remaining 60% goes to the hairdresser.
const AppointmentCommissionPercent int64 = 40

// PlatformFee derives the platform's share from the transaction type.
// Registration fees are kept in full; appointment fees are truncated to
// whole FCFA.
func PlatformFee(t TransactionType, amount int64) int64 {
	switch t {
	case TransactionRegistration:
		return amount
	case TransactionAppointment:
		return amount * AppointmentCommissionPercent / 100
	}
	return 0
}

// ProviderShare is what is paid out to the service provider.
func ProviderShare(t TransactionType, amount int64) int64 {
	return amount - PlatformFee(t, amount)
}

type TransactionInput struct {
	Type             TransactionType
	UserID           uuid.UUID
	Amount           int64
	AppointmentID    *uint
	PaymentMethod    PaymentMethod
	PaymentReference string
	CreatedAt        time.Time
}

// NewTransaction is the only way the write path builds a Transaction row, so
// the platform fee never comes from the caller.
func NewTransaction(in TransactionInput) (*models.Transaction, error) {
	verr := &ValidationError{}
	if in.Type != TransactionRegistration && in.Type != TransactionAppointment {
		verr.Add("transaction_type", "invalid")
	}
	if in.Amount <= 0 {
		verr.Add("amount", "must_be_positive")
	}
	if !in.PaymentMethod.Valid() {
		verr.Add("payment_method", "invalid")
	}
	if in.Type == TransactionAppointment && in.AppointmentID == nil {
		verr.Add("appointment_id", "required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &models.Transaction{
		TransactionType:  string(in.Type),
		Amount:           in.Amount,
		UserID:           in.UserID,
		AppointmentID:    in.AppointmentID,
		PaymentMethod:    string(in.PaymentMethod),
		PaymentReference: in.PaymentReference,
		PlatformFee:      PlatformFee(in.Type, in.Amount),
		CreatedAt:        in.CreatedAt,
	}, nil
}
