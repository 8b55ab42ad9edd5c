package dto

import (
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// ProfileResponse is what GET /api/users/profile returns and what the
// session manager keeps as the canonical profile.
type ProfileResponse struct {
	User               models.User                   `json:"user"`
	ClientProfile      *models.ClientProfile         `json:"client_profile,omitempty"`
	HairdresserProfile *models.HairdresserProfile    `json:"hairdresser_profile,omitempty"`
	Hairstyles         []models.HairdresserHairstyle `json:"hairstyles,omitempty"`
	Capabilities       onboarding.Capabilities       `json:"capabilities"`
	RequiresApproval   bool                          `json:"requires_approval"`
}

func (p *ProfileResponse) UserType() onboarding.UserType {
	if p == nil {
		return ""
	}
	return onboarding.UserType(p.User.UserType)
}

func NewProfileResponse(state *onboarding.ProfileState, hairstyles []models.HairdresserHairstyle) *ProfileResponse {
	return &ProfileResponse{
		User:               *state.User,
		ClientProfile:      state.Client,
		HairdresserProfile: state.Hairdresser,
		Hairstyles:         hairstyles,
		Capabilities:       state.Capabilities(),
	}
}
