package onboarding

import (
	"time"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/metrics"
	"github.com/BruksfildServices01/salon-onboarding/internal/timezone"
)

// Deps is shared by every onboarding use case.
type Deps struct {
	Repo    domain.Repository
	Audit   audit.Sink
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Audit == nil {
		d.Audit = audit.Discard{}
	}
	if d.Now == nil {
		d.Now = timezone.Now
	}
	return d
}
