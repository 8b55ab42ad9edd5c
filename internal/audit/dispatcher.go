package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Onboarding actions recorded in the audit trail.
const (
	ActionRegisterUser        = "register_user"
	ActionAcceptTerms         = "accept_terms"
	ActionReplaceHairstyles   = "replace_hairstyles"
	ActionRegistrationPayment = "registration_payment"
	ActionAppointmentPayment  = "appointment_payment"
	ActionApproveHairdresser  = "approve_hairdresser"
	ActionUploadImage         = "upload_image"
)

type Event struct {
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink receives audit events. Dispatch must not block the request path.
type Sink interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	logger *Logger
	log    *slog.Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(logger *Logger, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed", "action", ev.Action, "err", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// a full queue drops the event; the API never waits on auditing
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

// Discard is a Sink for callers that do not audit.
type Discard struct{}

func (Discard) Dispatch(Event) {}
