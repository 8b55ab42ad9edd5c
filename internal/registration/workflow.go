package registration

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/authz"
	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/events"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	"github.com/BruksfildServices01/salon-onboarding/internal/models"
	"github.com/BruksfildServices01/salon-onboarding/internal/session"
)

var (
	ErrWrongStep          = errors.New("registration: not the current step")
	ErrSubmissionInFlight = errors.New("registration: a submission is already in flight")
	ErrAbandoned          = errors.New("registration: workflow abandoned")
	ErrRoleLocked         = errors.New("registration: role can no longer change")
)

// Store is the durable side of each step.
type Store interface {
	RegisterUser(ctx context.Context, token string, role onboarding.UserType, req dto.RegisterUserRequest) (*models.User, error)
	AcceptTerms(ctx context.Context, token string, role onboarding.UserType, req dto.AcceptTermsRequest) error
	ReplaceHairstyles(ctx context.Context, token string, req dto.HairstylesRequest) ([]models.HairdresserHairstyle, error)
	RecordPayment(ctx context.Context, token string, req dto.PaymentRequest) (*models.Transaction, error)
	Catalog(ctx context.Context, token string) ([]models.Hairstyle, error)
}

// Sessions is the part of session.Manager the workflow depends on.
type Sessions interface {
	Session() *session.Session
	RefreshProfile(ctx context.Context) error
	Bus() *events.Bus
}

type Options struct {
	RegistrationFee int64
	Reporter        diagnostics.Reporter
	Logger          *slog.Logger
}

// FormData accumulates what each acknowledged step submitted.
type FormData struct {
	PersonalInfo  onboarding.PersonalInfo
	TermsAccepted bool
	Hairstyles    []onboarding.HairstyleSelection
	Payment       *models.Transaction
}

type State struct {
	Role       onboarding.UserType
	Step       Step
	StepIndex  int
	TotalSteps int
	InFlight   bool
	Abandoned  bool
	Data       FormData
}

type Workflow struct {
	store    Store
	sessions Sessions
	bus      *events.Bus
	reporter diagnostics.Reporter
	log      *slog.Logger
	fee      int64

	mu        sync.Mutex
	def       Definition
	index     int
	inFlight  bool
	abandoned bool
	data      FormData
	catalog   []models.Hairstyle

	unsubscribe func()
}

func New(role onboarding.UserType, store Store, sessions Sessions, opts Options) (*Workflow, error) {
	def, err := DefinitionFor(role)
	if err != nil {
		return nil, err
	}
	if opts.RegistrationFee == 0 {
		opts.RegistrationFee = onboarding.DefaultRegistrationFee
	}
	if opts.Reporter == nil {
		opts.Reporter = diagnostics.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	w := &Workflow{
		store:    store,
		sessions: sessions,
		bus:      sessions.Bus(),
		reporter: opts.Reporter,
		log:      opts.Logger.With("component", "registration"),
		fee:      opts.RegistrationFee,
		def:      def,
	}
	w.unsubscribe = w.bus.Subscribe(events.UserSignedOut, func(any) { w.Abandon() })
	return w, nil
}

// ======================================================
// State
// ======================================================

func (w *Workflow) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	data := w.data
	data.Hairstyles = append([]onboarding.HairstyleSelection(nil), w.data.Hairstyles...)
	return State{
		Role:       w.def.Role,
		Step:       w.def.at(w.index),
		StepIndex:  w.index,
		TotalSteps: len(w.def.Steps),
		InFlight:   w.inFlight,
		Abandoned:  w.abandoned,
		Data:       data,
	}
}

func (w *Workflow) CurrentStep() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.def.at(w.index)
}

// ReselectRole switches flows. It is refused once personal info was
// acknowledged, since the stored user type is immutable from then on.
func (w *Workflow) ReselectRole(role onboarding.UserType) error {
	def, err := DefinitionFor(role)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.abandoned {
		return ErrAbandoned
	}
	if w.index > 0 || w.inFlight {
		return ErrRoleLocked
	}
	w.def = def
	return nil
}

// Abandon stops the workflow. A write already in flight still completes
// on the server but never advances this workflow.
func (w *Workflow) Abandon() {
	w.mu.Lock()
	if w.abandoned {
		w.mu.Unlock()
		return
	}
	w.abandoned = true
	w.mu.Unlock()

	w.log.Info("registration abandoned", "role", string(w.def.Role))
	w.Close()
}

func (w *Workflow) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// Finish returns the role home once Success is reached.
func (w *Workflow) Finish() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.def.at(w.index) != StepSuccess {
		return "", ErrWrongStep
	}
	w.unsubscribe()
	return authz.Home(w.def.Role), nil
}

// ======================================================
// Steps
// ======================================================

func (w *Workflow) SubmitPersonalInfo(ctx context.Context, info onboarding.PersonalInfo) error {
	info.Normalize()
	if err := info.Validate(); err != nil {
		return err
	}

	return w.submit(ctx, StepPersonalInfo, func(ctx context.Context, token string, userID uuid.UUID, role onboarding.UserType) (func(*FormData), error) {
		_, err := w.store.RegisterUser(ctx, token, role, dto.RegisterUserRequest{
			UserID:          userID.String(),
			FirstName:       info.FirstName,
			LastName:        info.LastName,
			PhoneNumber:     info.PhoneNumber,
			ProfileImageURL: info.ProfileImageURL,
		})
		if err != nil {
			return nil, err
		}
		return func(d *FormData) { d.PersonalInfo = info }, nil
	})
}

func (w *Workflow) SubmitTerms(ctx context.Context, accepted bool) error {
	if !accepted {
		return onboarding.NewValidationError("has_accepted_terms", "must_accept")
	}

	return w.submit(ctx, StepTerms, func(ctx context.Context, token string, userID uuid.UUID, role onboarding.UserType) (func(*FormData), error) {
		yes := true
		if err := w.store.AcceptTerms(ctx, token, role, dto.AcceptTermsRequest{
			UserID:           userID.String(),
			HasAcceptedTerms: &yes,
		}); err != nil {
			return nil, err
		}
		return func(d *FormData) { d.TermsAccepted = true }, nil
	})
}

// SubmitHairstyles replaces the hairdresser's selection. A zero price means
// the catalog price.
func (w *Workflow) SubmitHairstyles(ctx context.Context, sel []onboarding.HairstyleSelection) error {
	if w.CurrentStep() != StepHairstyleSelection {
		return ErrWrongStep
	}

	catalog, err := w.Catalog(ctx)
	if err != nil {
		return err
	}
	prices := make(map[uint]int64, len(catalog))
	for _, h := range catalog {
		prices[h.ID] = h.Price
	}

	filled := make([]onboarding.HairstyleSelection, len(sel))
	verr := &onboarding.ValidationError{}
	for i, s := range sel {
		filled[i] = s
		price, known := prices[s.HairstyleID]
		if s.HairstyleID != 0 && !known {
			verr.Add("hairstyles", onboarding.CodeUnknownHairstyle)
			continue
		}
		if s.Price == 0 {
			filled[i].Price = price
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	if err := onboarding.ValidateSelections(filled); err != nil {
		return err
	}

	return w.submit(ctx, StepHairstyleSelection, func(ctx context.Context, token string, userID uuid.UUID, _ onboarding.UserType) (func(*FormData), error) {
		items := make([]dto.HairstyleItem, 0, len(filled))
		for _, s := range filled {
			items = append(items, dto.HairstyleItem{
				HairstyleID:     s.HairstyleID,
				Price:           s.Price,
				PortfolioImages: s.PortfolioImages,
			})
		}
		if _, err := w.store.ReplaceHairstyles(ctx, token, dto.HairstylesRequest{
			UserID:     userID.String(),
			Hairstyles: items,
		}); err != nil {
			return nil, err
		}
		return func(d *FormData) { d.Hairstyles = filled }, nil
	})
}

func (w *Workflow) SubmitPayment(ctx context.Context, method onboarding.PaymentMethod, reference string) error {
	pay := onboarding.RegistrationPayment{Method: method, Reference: reference, Amount: w.fee}
	if err := pay.Validate(w.fee); err != nil {
		return err
	}

	var recorded *models.Transaction
	err := w.submit(ctx, StepPayment, func(ctx context.Context, token string, userID uuid.UUID, _ onboarding.UserType) (func(*FormData), error) {
		t, err := w.store.RecordPayment(ctx, token, dto.PaymentRequest{
			UserID:           userID.String(),
			PaymentMethod:    string(method),
			PaymentReference: reference,
			Amount:           w.fee,
		})
		if err != nil {
			return nil, err
		}
		recorded = t
		return func(d *FormData) { d.Payment = t }, nil
	})
	if err == nil {
		w.bus.Publish(events.PaymentCompleted, recorded)
	}
	return err
}

// Catalog loads the hairstyle catalog once per workflow.
func (w *Workflow) Catalog(ctx context.Context) ([]models.Hairstyle, error) {
	w.mu.Lock()
	cached := w.catalog
	w.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	sess := w.sessions.Session()
	if sess == nil {
		return nil, onboarding.ErrAuthentication
	}
	list, err := w.store.Catalog(ctx, sess.AccessToken)
	if err != nil {
		w.report("catalog", onboarding.UserTypeHairdresser, err)
		return nil, err
	}

	w.mu.Lock()
	w.catalog = list
	w.mu.Unlock()
	return list, nil
}

// ======================================================
// Core
// ======================================================

type writeFunc func(ctx context.Context, token string, userID uuid.UUID, role onboarding.UserType) (func(*FormData), error)

func (w *Workflow) submit(ctx context.Context, step Step, write writeFunc) error {
	w.mu.Lock()
	switch {
	case w.abandoned:
		w.mu.Unlock()
		return ErrAbandoned
	case w.def.at(w.index) != step:
		w.mu.Unlock()
		return ErrWrongStep
	case w.inFlight:
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	sess := w.sessions.Session()
	if sess == nil {
		w.mu.Unlock()
		return onboarding.ErrAuthentication
	}
	w.inFlight = true
	role := w.def.Role
	w.mu.Unlock()

	record, err := write(ctx, sess.AccessToken, sess.UserID, role)

	w.mu.Lock()
	w.inFlight = false
	if err != nil {
		w.mu.Unlock()
		w.report(string(step), role, err)
		return err
	}
	if w.abandoned {
		w.mu.Unlock()
		return ErrAbandoned
	}
	record(&w.data)
	w.index++
	done := w.def.at(w.index) == StepSuccess
	w.mu.Unlock()

	w.log.Debug("registration step acknowledged", "role", string(role), "step", string(step))

	if done {
		w.complete(ctx, role)
	}
	return nil
}

func (w *Workflow) complete(ctx context.Context, role onboarding.UserType) {
	if err := w.sessions.RefreshProfile(ctx); err != nil {
		w.log.Warn("profile refresh after registration failed", "err", err)
	}
	w.bus.Publish(events.RegistrationCompleted, role)
}

// report forwards errors nobody can act on from the form.
func (w *Workflow) report(step string, role onboarding.UserType, err error) {
	var be httperr.BusinessError
	if onboarding.IsValidation(err) ||
		errors.As(err, &be) ||
		errors.Is(err, onboarding.ErrAuthentication) ||
		errors.Is(err, onboarding.ErrAuthorization) {
		return
	}
	w.reporter.Capture("registration", err, map[string]any{"step": step, "role": string(role)})
}
