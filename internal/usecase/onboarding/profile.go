package onboarding

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

type GetProfile struct {
	Deps
	requireApproval bool
}

// NewGetProfile builds the profile read. requireApproval is echoed in every
// response so clients apply the same gate policy as the server config.
func NewGetProfile(d Deps, requireApproval bool) *GetProfile {
	return &GetProfile{Deps: d.withDefaults(), requireApproval: requireApproval}
}

// Execute returns target's profile. Callers may read their own profile;
// admins may read anyone's.
func (uc *GetProfile) Execute(ctx context.Context, callerID, targetID uuid.UUID) (*dto.ProfileResponse, error) {
	if callerID != targetID {
		caller, err := uc.Repo.GetUser(ctx, callerID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthorization
		}
		if err != nil {
			return nil, err
		}
		if domain.UserType(caller.UserType) != domain.UserTypeAdmin {
			return nil, domain.ErrAuthorization
		}
	}

	state, err := uc.Repo.GetProfileState(ctx, targetID)
	if err != nil {
		return nil, err
	}

	var hairstyles []models.HairdresserHairstyle
	if domain.UserType(state.User.UserType) == domain.UserTypeHairdresser {
		hairstyles, err = uc.Repo.ListHairdresserHairstyles(ctx, targetID)
		if err != nil {
			return nil, err
		}
	}

	resp := dto.NewProfileResponse(state, hairstyles)
	resp.RequiresApproval = uc.requireApproval
	return resp, nil
}

type RecordLogin struct {
	Deps
}

func NewRecordLogin(d Deps) *RecordLogin {
	return &RecordLogin{Deps: d.withDefaults()}
}

func (uc *RecordLogin) Execute(ctx context.Context, userID uuid.UUID) error {
	err := uc.Repo.RecordLogin(ctx, userID, uc.Now())
	uc.Metrics.ObserveWrite("record_login", err)
	return err
}
