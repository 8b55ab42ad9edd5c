// Package session owns the single canonical authenticated session of a
// client and reconciles the identity provider's event stream into it.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
)

type Session struct {
	AccessToken string
	UserID      uuid.UUID
	Email       string
	ExpiresAt   time.Time
}

type IdentityEvent int

const (
	SessionEstablished IdentityEvent = iota + 1
	SessionRefreshed
	SessionEnded
)

func (e IdentityEvent) String() string {
	switch e {
	case SessionEstablished:
		return "established"
	case SessionRefreshed:
		return "refreshed"
	case SessionEnded:
		return "ended"
	}
	return "unknown"
}

// Listener receives provider events. The session pointer is nil for Ended.
type Listener func(event IdentityEvent, s *Session)

type IdentityProvider interface {
	CurrentSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn Listener) (unsubscribe func())
	SignOut(ctx context.Context) error
}

type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string, userID uuid.UUID) (*dto.ProfileResponse, error)
}

type LoginRecorder interface {
	RecordLogin(ctx context.Context, token string, userID uuid.UUID) error
}
