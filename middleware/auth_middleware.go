package middleware

import (
	"errors"
	"net/http"

	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// AuthMiddleware guards the JSON API. Unlike page navigation, API requests
// never get redirects: failures come back as JSON error responses.
type AuthMiddleware struct {
	resolver SessionResolver
	users    repositories.UserRepository
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver SessionResolver, users repositories.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		users:    users,
		logger:   logger,
	}
}

// RequireAuth requires a valid session with a profile row. The profile is
// loaded from the store and placed in the request context; the token's role
// hint is never trusted for authorization.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := m.resolver.Resolve(r)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrNoSession):
				_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			case errors.Is(err, identity.ErrTokenExpired):
				_ = utils.WriteUnauthorized(w, "Session expired")
			case errors.Is(err, identity.ErrProviderUnavailable):
				m.logger.Warn("identity provider unavailable", zap.Error(err))
				_ = utils.WriteBadGateway(w, "Identity provider unavailable")
			default:
				m.logger.Warn("session resolution failed", zap.Error(err))
				_ = utils.WriteUnauthorized(w, "Invalid session")
			}
			return
		}

		user, err := m.users.GetByID(ctx, session.Subject)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				m.logger.Warn("session without profile row",
					zap.String("subject_id", session.Subject))
				_ = utils.WriteForbidden(w, "Account setup incomplete")
				return
			}
			m.logger.Error("profile lookup failed",
				zap.String("subject_id", session.Subject),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "Failed to load profile")
			return
		}

		if !user.Role.Valid() {
			m.logger.Warn("profile carries unrecognized role",
				zap.String("subject_id", session.Subject),
				zap.String("role", string(user.Role)))
			_ = utils.WriteForbidden(w, "Account role not recognized")
			return
		}

		ctx = WithSession(ctx, session)
		ctx = WithUser(ctx, user)

		m.logger.Debug("authentication successful",
			zap.String("subject_id", session.Subject),
			zap.String("role", string(user.Role)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole requires the authenticated user to hold one of the given roles.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(allowed ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				m.logger.Error("user not found in context")
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			for _, role := range allowed {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.Warn("insufficient permissions",
				zap.String("subject_id", user.ID),
				zap.String("role", string(user.Role)))
			_ = utils.WriteForbidden(w, "Insufficient permissions")
		})
	}
}
