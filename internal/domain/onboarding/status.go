package onboarding

import (
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// ===============================
// Registration state
// ===============================

// ProfileState is the durable view of one user's onboarding rows.
type ProfileState struct {
	User           *models.User
	Client         *models.ClientProfile
	Hairdresser    *models.HairdresserProfile
	HairstyleCount int64
}

type Capabilities struct {
	RegistrationComplete  bool `json:"registration_complete"`
	CanBook               bool `json:"can_book"`
	CanAcceptAppointments bool `json:"can_accept_appointments"`
}

// RegistrationComplete is true only once every prerequisite step of the
// user's role has been recorded.
func (s ProfileState) RegistrationComplete() bool {
	if s.User == nil {
		return false
	}
	switch UserType(s.User.UserType) {
	case UserTypeClient:
		return s.Client != nil && s.Client.HasAcceptedTerms
	case UserTypeHairdresser:
		return s.Hairdresser != nil &&
			s.Hairdresser.HasAcceptedTerms &&
			s.Hairdresser.HasPaidRegistration &&
			s.HairstyleCount > 0
	case UserTypeAdmin:
		return true
	}
	return false
}

// Capabilities derives what the user may do. Accepting appointments
// additionally requires admin approval.
func (s ProfileState) Capabilities() Capabilities {
	complete := s.RegistrationComplete()
	c := Capabilities{RegistrationComplete: complete}
	if !complete {
		return c
	}
	switch UserType(s.User.UserType) {
	case UserTypeClient:
		c.CanBook = true
	case UserTypeHairdresser:
		c.CanAcceptAppointments = s.User.IsApproved
	}
	return c
}

// CanChangeUserType guards the immutability of a user's type: an existing
// non-empty type may only be re-asserted, never silently replaced.
func CanChangeUserType(current string, next UserType) bool {
	return current == "" || current == string(next)
}
