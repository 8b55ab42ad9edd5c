// Package identity adapts bearer tokens issued by the external identity
// provider to the session package's provider contract.
package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/session"
)

var ErrInvalidToken = errors.New("invalid access token")

// SessionFromToken reads the subject, email and expiry claims. The
// signature is not checked here; the API verifies it on every request.
func SessionFromToken(token string) (*session.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	s := &session.Session{AccessToken: token, UserID: id}
	if email, ok := claims["email"].(string); ok {
		s.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}

// TokenProvider is an in-process identity provider fed with tokens by its
// owner. It may emit duplicate Established events, exactly like remote
// providers do, and leaves deduplication to session.Manager.
type TokenProvider struct {
	mu        sync.Mutex
	current   *session.Session
	nextID    int
	listeners map[int]session.Listener
	now       func() time.Time
}

func NewTokenProvider() *TokenProvider {
	return &TokenProvider{listeners: make(map[int]session.Listener), now: time.Now}
}

var _ session.IdentityProvider = (*TokenProvider)(nil)

func (p *TokenProvider) CurrentSession(context.Context) (*session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	if !p.current.ExpiresAt.IsZero() && p.now().After(p.current.ExpiresAt) {
		return nil, nil
	}
	s := *p.current
	return &s, nil
}

func (p *TokenProvider) OnAuthStateChange(fn session.Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Establish signs in with token.
func (p *TokenProvider) Establish(token string) error {
	s, err := SessionFromToken(token)
	if err != nil {
		return err
	}
	p.set(s)
	p.emit(session.SessionEstablished, s)
	return nil
}

// Refresh swaps in a renewed token for the same identity.
func (p *TokenProvider) Refresh(token string) error {
	s, err := SessionFromToken(token)
	if err != nil {
		return err
	}
	p.set(s)
	p.emit(session.SessionRefreshed, s)
	return nil
}

func (p *TokenProvider) SignOut(context.Context) error {
	p.set(nil)
	p.emit(session.SessionEnded, nil)
	return nil
}

func (p *TokenProvider) set(s *session.Session) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}

func (p *TokenProvider) emit(ev session.IdentityEvent, s *session.Session) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	fns := make([]session.Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, p.listeners[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		var cp *session.Session
		if s != nil {
			c := *s
			cp = &c
		}
		fn(ev, cp)
	}
}
