package onboarding

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type RegisterUserInput struct {
	UserID uuid.UUID
	Email  string
	Type   domain.UserType
	Info   domain.PersonalInfo
}

// ======================================================
// USE CASE
// ======================================================

type RegisterUser struct {
	Deps
}

func NewRegisterUser(d Deps) *RegisterUser {
	return &RegisterUser{Deps: d.withDefaults()}
}

func (uc *RegisterUser) Execute(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	if in.Type != domain.UserTypeClient && in.Type != domain.UserTypeHairdresser {
		return nil, domain.NewValidationError("user_type", "invalid")
	}

	in.Info.Normalize()
	if err := in.Info.Validate(); err != nil {
		return nil, err
	}

	user, err := uc.Repo.UpsertUser(ctx, domain.RegisterUserInput{
		UserID: in.UserID,
		Email:  in.Email,
		Type:   in.Type,
		Info:   in.Info,
	})
	uc.Metrics.ObserveWrite("register_"+string(in.Type), err)
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   audit.ActionRegisterUser,
		Entity:   "user",
		EntityID: user.ID.String(),
		Metadata: map[string]any{"user_type": user.UserType},
	})

	return user, nil
}
