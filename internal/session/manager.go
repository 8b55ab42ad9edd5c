package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	"github.com/BruksfildServices01/salon-onboarding/internal/events"
)

type Deps struct {
	Provider IdentityProvider
	Profiles ProfileFetcher
	Logins   LoginRecorder
	Bus      *events.Bus
	Reporter diagnostics.Reporter
	Logger   *slog.Logger
}

type queued struct {
	ctx   context.Context
	event IdentityEvent
	s     *Session
}

// Manager holds the canonical session. Identity events are applied one at
// a time in delivery order; an event raised while another is being applied
// (for example a sign-out from inside a subscriber) is queued behind it.
type Manager struct {
	provider IdentityProvider
	profiles ProfileFetcher
	logins   LoginRecorder
	bus      *events.Bus
	reporter diagnostics.Reporter
	log      *slog.Logger

	mu            sync.RWMutex
	session       *Session
	profile       *dto.ProfileResponse
	loginRecorded bool

	qmu      sync.Mutex
	pending  []queued
	draining bool

	initOnce    sync.Once
	ready       chan struct{}
	unsubscribe func()
	bg          sync.WaitGroup
}

func NewManager(d Deps) *Manager {
	if d.Bus == nil {
		d.Bus = events.NewBus(d.Logger)
	}
	if d.Reporter == nil {
		d.Reporter = diagnostics.Nop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Manager{
		provider: d.Provider,
		profiles: d.Profiles,
		logins:   d.Logins,
		bus:      d.Bus,
		reporter: d.Reporter,
		log:      d.Logger.With("component", "session"),
		ready:    make(chan struct{}),
	}
}

// Initialize subscribes to the provider and adopts an already existing
// session. It runs once; Ready is closed when it returns.
func (m *Manager) Initialize(ctx context.Context) error {
	var err error
	m.initOnce.Do(func() {
		defer close(m.ready)

		m.unsubscribe = m.provider.OnAuthStateChange(func(ev IdentityEvent, s *Session) {
			m.OnIdentityEvent(context.Background(), ev, s)
		})

		var s *Session
		s, err = m.provider.CurrentSession(ctx)
		if err != nil {
			m.reporter.Capture("session", err, map[string]any{"op": "current_session"})
			return
		}
		if s != nil {
			m.OnIdentityEvent(ctx, SessionEstablished, s)
		}
	})
	return err
}

func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) OnIdentityEvent(ctx context.Context, event IdentityEvent, s *Session) {
	m.qmu.Lock()
	m.pending = append(m.pending, queued{ctx: ctx, event: event, s: s})
	if m.draining {
		m.qmu.Unlock()
		return
	}
	m.draining = true
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.qmu.Unlock()

		m.apply(next)

		m.qmu.Lock()
	}
	m.draining = false
	m.qmu.Unlock()
}

func (m *Manager) apply(q queued) {
	switch q.event {
	case SessionEstablished:
		m.established(q.ctx, q.s)
	case SessionRefreshed:
		m.refreshed(q.ctx, q.s)
	case SessionEnded:
		m.ended()
	default:
		m.log.Warn("ignoring unknown identity event", "event", int(q.event))
	}
}

func (m *Manager) established(ctx context.Context, s *Session) {
	if s == nil {
		return
	}

	m.mu.Lock()
	if m.session != nil {
		// duplicate established notifications are expected from providers
		m.mu.Unlock()
		m.log.Debug("session already established, ignoring duplicate")
		return
	}
	sess := *s
	m.session = &sess
	m.mu.Unlock()

	m.adopt(ctx, sess)
}

func (m *Manager) refreshed(ctx context.Context, s *Session) {
	if s == nil {
		return
	}

	m.mu.Lock()
	hadSession := m.session != nil
	sess := *s
	m.session = &sess
	m.mu.Unlock()

	// a refresh may be the first event a provider delivers
	if !hadSession {
		m.adopt(ctx, sess)
	}
}

// adopt runs once per canonical session, whichever event made it
// canonical: profile load, sign-in notification and the one-shot login
// record.
func (m *Manager) adopt(ctx context.Context, sess Session) {
	m.loadProfile(ctx, &sess)
	m.bus.Publish(events.UserSignedIn, sess)

	m.mu.Lock()
	fire := !m.loginRecorded && m.session != nil && m.session.UserID == sess.UserID
	if fire {
		m.loginRecorded = true
	}
	m.mu.Unlock()

	if fire {
		m.recordLogin(sess)
	}
}

func (m *Manager) ended() {
	m.mu.Lock()
	hadSession := m.session != nil
	m.session = nil
	m.profile = nil
	m.loginRecorded = false
	m.mu.Unlock()

	if hadSession {
		m.bus.Publish(events.UserSignedOut, nil)
	}
}

// loadProfile fetches the profile for s. A missing profile means the user
// has not registered yet; any other failure leaves the session
// authenticated with an unknown profile.
func (m *Manager) loadProfile(ctx context.Context, s *Session) {
	p, err := m.profiles.FetchProfile(ctx, s.AccessToken, s.UserID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.UserID != s.UserID {
		return
	}
	switch {
	case err == nil:
		m.profile = p
	case errors.Is(err, onboarding.ErrNotFound):
		m.profile = nil
	default:
		m.profile = nil
		m.reporter.Capture("session", err, map[string]any{"op": "fetch_profile", "user_id": s.UserID.String()})
	}
}

func (m *Manager) recordLogin(s Session) {
	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		if err := m.logins.RecordLogin(context.Background(), s.AccessToken, s.UserID); err != nil {
			if errors.Is(err, onboarding.ErrNotFound) {
				return
			}
			m.reporter.Capture("session", err, map[string]any{"op": "record_login", "user_id": s.UserID.String()})
		}
	}()
}

// RefreshProfile re-reads the profile of the current session and publishes
// it. Without a session it does nothing.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	if m.session == nil {
		m.mu.RUnlock()
		return nil
	}
	sess := *m.session
	prev := m.profile
	m.mu.RUnlock()

	p, err := m.profiles.FetchProfile(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		if !errors.Is(err, onboarding.ErrNotFound) {
			m.reporter.Capture("session", err, map[string]any{"op": "refresh_profile", "user_id": sess.UserID.String()})
		}
		return err
	}

	m.mu.Lock()
	if m.session == nil || m.session.UserID != sess.UserID {
		m.mu.Unlock()
		return nil
	}
	m.profile = p
	m.mu.Unlock()

	m.bus.Publish(events.UserProfileUpdated, p)
	if becameApproved(prev, p) {
		m.bus.Publish(events.HairdresserApproved, p)
	}
	return nil
}

func becameApproved(prev, next *dto.ProfileResponse) bool {
	return prev != nil && next != nil &&
		next.UserType() == onboarding.UserTypeHairdresser &&
		!prev.User.IsApproved && next.User.IsApproved
}

// SignOut asks the provider to end the session. State is cleared when the
// provider reports the Ended event.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.provider.SignOut(ctx)
}

// Close unsubscribes from the provider and waits for background login
// recording to finish.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.bg.Wait()
}

func (m *Manager) Bus() *events.Bus {
	return m.bus
}

func (m *Manager) Session() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

func (m *Manager) Profile() *dto.ProfileResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// UserType is "" while the profile is unknown.
func (m *Manager) UserType() onboarding.UserType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile.UserType()
}

func (m *Manager) Approved() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile != nil && m.profile.User.IsApproved
}

func (m *Manager) LoginRecorded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loginRecorded
}
