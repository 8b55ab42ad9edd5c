package onboarding

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

type ReplaceHairstyles struct {
	Deps
}

func NewReplaceHairstyles(d Deps) *ReplaceHairstyles {
	return &ReplaceHairstyles{Deps: d.withDefaults()}
}

func (uc *ReplaceHairstyles) Execute(
	ctx context.Context,
	hairdresserID uuid.UUID,
	sel []domain.HairstyleSelection,
) ([]models.HairdresserHairstyle, error) {

	if err := domain.ValidateSelections(sel); err != nil {
		return nil, err
	}

	rows, err := uc.Repo.ReplaceHairdresserHairstyles(ctx, hairdresserID, sel)
	uc.Metrics.ObserveWrite("replace_hairstyles", err)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.HairstyleID)
	}
	uc.Audit.Dispatch(audit.Event{
		UserID:   &hairdresserID,
		Action:   audit.ActionReplaceHairstyles,
		Entity:   "hairdresser_hairstyles",
		EntityID: hairdresserID.String(),
		Metadata: map[string]any{"hairstyle_ids": ids},
	})

	return rows, nil
}
