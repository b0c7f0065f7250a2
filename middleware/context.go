package middleware

import (
	"context"

	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the resolved session
	SessionKey contextKey = "session"

	// UserKey is the context key for the loaded user profile
	UserKey contextKey = "user"
)

// GetSessionFromContext retrieves the resolved session from context
func GetSessionFromContext(ctx context.Context) *identity.Session {
	if val := ctx.Value(SessionKey); val != nil {
		if session, ok := val.(*identity.Session); ok {
			return session
		}
	}
	return nil
}

// WithSession adds a resolved session to the context
func WithSession(ctx context.Context, session *identity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetUserFromContext retrieves the loaded user profile from context
func GetUserFromContext(ctx context.Context) *models.User {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}

// WithUser adds a user profile to the context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
