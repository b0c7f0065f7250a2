package access

import (
	"context"

	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/models"
)

// LoginPath is where unauthenticated and signed-out users land
const LoginPath = "/auth/login"

// Error codes appended to the login path on forced sign-out
const (
	// ErrorAccountSetup marks a session whose profile row never appeared
	ErrorAccountSetup = "account_setup"

	// ErrorInvalidRole marks a stored role outside the recognized set
	ErrorInvalidRole = "invalid_role"
)

// LookupStatus is the outcome of a role lookup against the profile store
type LookupStatus int

const (
	// StatusFound means the store holds a recognized role for the subject
	StatusFound LookupStatus = iota

	// StatusNotFound means the subject has no profile row. A normal outcome:
	// the signup race leaves a window where the identity exists but the
	// profile does not.
	StatusNotFound

	// StatusInvalid means the stored role is outside the recognized set
	StatusInvalid

	// StatusUnavailable means the store could not be reached. Distinct from
	// not-found: the profile may exist, so the session must not be cleared.
	StatusUnavailable
)

// String returns the status name for logging
func (s LookupStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusInvalid:
		return "invalid"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// RoleLookup resolves a subject id to its authoritative role. Implementations
// must report store failures as StatusUnavailable rather than returning an
// error; the router fails closed on that status without revoking the session.
type RoleLookup interface {
	Lookup(ctx context.Context, subjectID string) (models.UserRole, LookupStatus)
}

// ActionType distinguishes the three routing outcomes
type ActionType int

const (
	// ActionAllow lets the request through unchanged
	ActionAllow ActionType = iota

	// ActionRedirect redirects, keeping the session intact
	ActionRedirect

	// ActionSignOutRedirect clears the session then redirects. Applying it
	// to an already-signed-out session is a no-op.
	ActionSignOutRedirect
)

// Action is the routing decision for one request. Location is set for the
// redirect types.
type Action struct {
	Type     ActionType
	Location string
}

// Allow lets the request through
func Allow() Action {
	return Action{Type: ActionAllow}
}

// RedirectTo redirects without touching the session
func RedirectTo(location string) Action {
	return Action{Type: ActionRedirect, Location: location}
}

// SignOutAndRedirectTo clears the session and redirects
func SignOutAndRedirectTo(location string) Action {
	return Action{Type: ActionSignOutRedirect, Location: location}
}

// signOutWithError builds the login redirect carrying a sign-out error code
func signOutWithError(code string) Action {
	return SignOutAndRedirectTo(LoginPath + "?error=" + code)
}

// Decide computes the routing action for a request. It is a pure function of
// the session, the path's classification and the role lookup result; it holds
// no state across requests and is safe for concurrent use. First matching
// rule wins:
//
//  1. Neutral paths pass untouched.
//  2. No session on a non-public path redirects to login.
//  3. A session on a public path routes to the role home; a missing or
//     invalid role forces sign-out with an error code.
//  4. A session in another role's section routes to the actual role's home.
//  5. Everything else passes.
//
// When the profile store is unavailable the router fails closed (redirect to
// login) but keeps the session: the outage says nothing about the profile.
func Decide(ctx context.Context, path string, session *identity.Session, roles RoleLookup) Action {
	class := Classify(path)

	if class.Kind == KindNeutral {
		return Allow()
	}

	if session == nil {
		if class.Kind == KindPublic {
			return Allow()
		}
		return RedirectTo(LoginPath)
	}

	switch class.Kind {
	case KindPublic:
		role, status := roles.Lookup(ctx, session.Subject)
		switch status {
		case StatusFound:
			return RedirectTo(role.HomePath())
		case StatusNotFound:
			return signOutWithError(ErrorAccountSetup)
		case StatusInvalid:
			return signOutWithError(ErrorInvalidRole)
		default:
			return RedirectTo(LoginPath)
		}

	case KindRoleScoped:
		role, status := roles.Lookup(ctx, session.Subject)
		switch status {
		case StatusFound:
			if role != class.Role {
				return RedirectTo(role.HomePath())
			}
			return Allow()
		case StatusNotFound:
			return signOutWithError(ErrorAccountSetup)
		case StatusInvalid:
			return signOutWithError(ErrorInvalidRole)
		default:
			return RedirectTo(LoginPath)
		}
	}

	return Allow()
}
