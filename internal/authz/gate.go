// Package authz decides whether a session may reach a role-restricted
// destination and, when not, where it should go instead.
package authz

import (
	"slices"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/session"
)

const (
	LoginPath           = "/login"
	RegisterPath        = "/register"
	ClientHome          = "/client"
	HairdresserHome     = "/hairdresser"
	AdminHome           = "/admin"
	PendingApprovalPath = "/hairdresser/pending"
)

type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision { return Decision{Allowed: true} }

func redirect(path string) Decision { return Decision{RedirectTo: path} }

// Home is the landing path of a role. A session without a known role has
// not finished registering.
func Home(role onboarding.UserType) string {
	switch role {
	case onboarding.UserTypeClient:
		return ClientHome
	case onboarding.UserTypeHairdresser:
		return HairdresserHome
	case onboarding.UserTypeAdmin:
		return AdminHome
	}
	return RegisterPath
}

// Decide applies the default policy, which does not look at approval.
func Decide(sess *session.Session, role onboarding.UserType, required ...onboarding.UserType) Decision {
	return Gate{}.Decide(sess, role, false, required...)
}

// Gate carries the approval policy. With RequireApproval set, hairdressers
// that an admin has not approved yet are held on the pending page.
type Gate struct {
	RequireApproval bool
}

func (g Gate) Decide(sess *session.Session, role onboarding.UserType, approved bool, required ...onboarding.UserType) Decision {
	if sess == nil {
		return redirect(LoginPath)
	}
	if len(required) == 0 {
		return allow()
	}
	if !slices.Contains(required, role) {
		return redirect(Home(role))
	}
	if g.RequireApproval && role == onboarding.UserTypeHairdresser && !approved {
		return redirect(PendingApprovalPath)
	}
	return allow()
}

// ForManager evaluates the gate against the manager's current state.
func (g Gate) ForManager(m *session.Manager, required ...onboarding.UserType) Decision {
	return g.Decide(m.Session(), m.UserType(), m.Approved(), required...)
}
