package onboarding

import (
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/validators"
)

// ===============================
// Step inputs
// ===============================

type PersonalInfo struct {
	FirstName       string
	LastName        string
	PhoneNumber     string
	ProfileImageURL string
}

// Normalize trims user-entered text in place.
func (p *PersonalInfo) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.ProfileImageURL = strings.TrimSpace(p.ProfileImageURL)
}

func (p PersonalInfo) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(p.FirstName) == "" {
		verr.Add("first_name", "required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		verr.Add("last_name", "required")
	}
	phone := strings.TrimSpace(p.PhoneNumber)
	switch {
	case phone == "":
		verr.Add("phone_number", "required")
	case !validators.IsPhoneNumber(phone):
		verr.Add("phone_number", "invalid_format")
	}
	return verr.OrNil()
}

type RegisterUserInput struct {
	UserID uuid.UUID
	Email  string
	Type   UserType
	Info   PersonalInfo
}

type HairstyleSelection struct {
	HairstyleID     uint
	Price           int64
	PortfolioImages []string
}

// ValidateSelections checks the shape of a replacement set. Catalog
// membership is checked by the store inside the replace transaction.
func ValidateSelections(sel []HairstyleSelection) error {
	if len(sel) == 0 {
		return NewValidationError("hairstyles", "at_least_one_required")
	}
	verr := &ValidationError{}
	seen := make(map[uint]struct{}, len(sel))
	for _, s := range sel {
		if s.HairstyleID == 0 {
			verr.Add("hairstyles", "invalid_hairstyle_id")
			continue
		}
		if _, dup := seen[s.HairstyleID]; dup {
			verr.Add("hairstyles", "duplicate_hairstyle")
			continue
		}
		seen[s.HairstyleID] = struct{}{}
		if s.Price <= 0 {
			verr.Add("price", "must_be_positive")
		}
	}
	return verr.OrNil()
}

type RegistrationPayment struct {
	UserID    uuid.UUID
	Method    PaymentMethod
	Reference string
	Amount    int64
}

func (p RegistrationPayment) Validate(fee int64) error {
	verr := &ValidationError{}
	if !p.Method.Valid() {
		verr.Add("payment_method", "invalid")
	}
	if strings.TrimSpace(p.Reference) == "" {
		verr.Add("payment_reference", "required")
	}
	if p.Amount != fee {
		verr.Add("amount", "must_equal_registration_fee")
	}
	return verr.OrNil()
}

type AppointmentPayment struct {
	UserID        uuid.UUID
	AppointmentID uint
	Amount        int64
	Method        PaymentMethod
	Reference     string
}
