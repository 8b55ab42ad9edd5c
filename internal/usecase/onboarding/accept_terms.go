package onboarding

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
)

type AcceptTerms struct {
	Deps
}

func NewAcceptTerms(d Deps) *AcceptTerms {
	return &AcceptTerms{Deps: d.withDefaults()}
}

// Execute records the terms flag on the role's profile row. Only an
// explicit true is accepted.
func (uc *AcceptTerms) Execute(
	ctx context.Context,
	userID uuid.UUID,
	role domain.UserType,
	accepted *bool,
) (any, error) {

	if accepted == nil {
		return nil, domain.NewValidationError("has_accepted_terms", "required")
	}
	if !*accepted {
		return nil, domain.NewValidationError("has_accepted_terms", "must_accept")
	}

	var (
		profile any
		err     error
		entity  string
	)
	switch role {
	case domain.UserTypeClient:
		entity = "client_profile"
		profile, err = uc.Repo.UpsertClientTerms(ctx, userID, true)
	case domain.UserTypeHairdresser:
		entity = "hairdresser_profile"
		profile, err = uc.Repo.UpsertHairdresserTerms(ctx, userID, true)
	default:
		return nil, domain.NewValidationError("user_type", "invalid")
	}
	uc.Metrics.ObserveWrite("accept_terms_"+string(role), err)
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionAcceptTerms,
		Entity:   entity,
		EntityID: userID.String(),
	})

	return profile, nil
}
