// Package registration drives the per-role onboarding sequence. A step
// advances only after the store acknowledged its write.
package registration

import (
	"fmt"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
)

type Step string

const (
	StepPersonalInfo       Step = "personal_info"
	StepTerms              Step = "terms"
	StepHairstyleSelection Step = "hairstyle_selection"
	StepPayment            Step = "payment"
	StepSuccess            Step = "success"
)

// Definition is the ordered list of steps a role has to complete. Success
// is implicit after the last one.
type Definition struct {
	Role  onboarding.UserType
	Steps []Step
}

var (
	ClientFlow = Definition{
		Role:  onboarding.UserTypeClient,
		Steps: []Step{StepPersonalInfo, StepTerms},
	}
	HairdresserFlow = Definition{
		Role:  onboarding.UserTypeHairdresser,
		Steps: []Step{StepPersonalInfo, StepTerms, StepHairstyleSelection, StepPayment},
	}
)

func DefinitionFor(role onboarding.UserType) (Definition, error) {
	switch role {
	case onboarding.UserTypeClient:
		return ClientFlow, nil
	case onboarding.UserTypeHairdresser:
		return HairdresserFlow, nil
	}
	return Definition{}, fmt.Errorf("no registration flow for role %q", role)
}

func (d Definition) at(i int) Step {
	if i >= len(d.Steps) {
		return StepSuccess
	}
	return d.Steps[i]
}
