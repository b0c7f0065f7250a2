package middleware

import (
	"errors"
	"net/http"

	"github.com/pulseplan/backend/access"
	"github.com/pulseplan/backend/identity"
	"go.uber.org/zap"
)

// SessionResolver resolves the session credential on a request
type SessionResolver interface {
	Resolve(r *http.Request) (*identity.Session, error)
}

// AccessMiddleware applies the routing decision table to page navigation.
// It resolves the session, asks the router for an action and applies it; the
// decision itself lives in the access package and never touches the response.
type AccessMiddleware struct {
	resolver SessionResolver
	roles    access.RoleLookup
	logger   *zap.Logger
}

// NewAccessMiddleware creates a new AccessMiddleware
func NewAccessMiddleware(resolver SessionResolver, roles access.RoleLookup, logger *zap.Logger) *AccessMiddleware {
	return &AccessMiddleware{
		resolver: resolver,
		roles:    roles,
		logger:   logger,
	}
}

// Route is the middleware applied to every page route
func (m *AccessMiddleware) Route(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := m.resolver.Resolve(r)
		if err != nil && !errors.Is(err, identity.ErrNoSession) {
			// A malformed, expired or unverifiable credential routes like no
			// session at all; the decision table handles the redirect.
			m.logger.Debug("session resolution failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			session = nil
		}

		action := access.Decide(ctx, r.URL.Path, session, m.roles)

		switch action.Type {
		case access.ActionRedirect:
			m.logger.Debug("routing redirect",
				zap.String("path", r.URL.Path),
				zap.String("location", action.Location))
			http.Redirect(w, r, action.Location, http.StatusFound)
			return

		case access.ActionSignOutRedirect:
			m.logger.Info("forced sign-out",
				zap.String("path", r.URL.Path),
				zap.String("location", action.Location))
			clearSessionCookie(w)
			http.Redirect(w, r, action.Location, http.StatusFound)
			return
		}

		if session != nil {
			ctx = WithSession(ctx, session)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clearSessionCookie expires the session cookie. Clearing an absent cookie is
// a no-op, so forced sign-out stays idempotent.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
