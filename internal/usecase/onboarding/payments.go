package onboarding

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// ======================================================
// Registration fee
// ======================================================

type RecordRegistrationPayment struct {
	Deps
	fee int64
}

func NewRecordRegistrationPayment(d Deps, fee int64) *RecordRegistrationPayment {
	if fee <= 0 {
		fee = domain.DefaultRegistrationFee
	}
	return &RecordRegistrationPayment{Deps: d.withDefaults(), fee: fee}
}

func (uc *RecordRegistrationPayment) Fee() int64 { return uc.fee }

func (uc *RecordRegistrationPayment) Execute(ctx context.Context, p domain.RegistrationPayment) (*models.Transaction, error) {
	if err := p.Validate(uc.fee); err != nil {
		return nil, err
	}

	t, err := uc.Repo.RecordRegistrationPayment(ctx, p, uc.Now())
	uc.Metrics.ObserveWrite("registration_payment", err)
	if err != nil {
		return nil, err
	}
	uc.Metrics.ObserveFee(t.TransactionType, t.PlatformFee)

	uc.Audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   audit.ActionRegistrationPayment,
		Entity:   "transaction",
		EntityID: strconv.FormatUint(uint64(t.ID), 10),
		Metadata: map[string]any{
			"payment_method":    t.PaymentMethod,
			"payment_reference": t.PaymentReference,
			"amount":            t.Amount,
		},
	})

	return t, nil
}

// ======================================================
// Appointment payment
// ======================================================

type RecordAppointmentPayment struct {
	Deps
}

func NewRecordAppointmentPayment(d Deps) *RecordAppointmentPayment {
	return &RecordAppointmentPayment{Deps: d.withDefaults()}
}

// Execute records an already confirmed appointment payment. The platform
// keeps 40% of the amount; the caller cannot choose the fee.
func (uc *RecordAppointmentPayment) Execute(ctx context.Context, p domain.AppointmentPayment) (*models.Transaction, error) {
	verr := &domain.ValidationError{}
	if p.AppointmentID == 0 {
		verr.Add("appointment_id", "required")
	}
	if p.Amount <= 0 {
		verr.Add("amount", "must_be_positive")
	}
	if !p.Method.Valid() {
		verr.Add("payment_method", "invalid")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	t, err := uc.Repo.RecordAppointmentPayment(ctx, p, uc.Now())
	uc.Metrics.ObserveWrite("appointment_payment", err)
	if err != nil {
		return nil, err
	}
	uc.Metrics.ObserveFee(t.TransactionType, t.PlatformFee)

	uc.Audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   audit.ActionAppointmentPayment,
		Entity:   "transaction",
		EntityID: strconv.FormatUint(uint64(t.ID), 10),
		Metadata: map[string]any{
			"appointment_id": p.AppointmentID,
			"amount":         t.Amount,
			"platform_fee":   t.PlatformFee,
			"provider_share": domain.ProviderShare(domain.TransactionAppointment, t.Amount),
		},
	})

	return t, nil
}
