package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingClaim is returned when a required claim is missing
	ErrMissingClaim = errors.New("missing required claim")
)

// Claims represents the claims carried by the identity provider's session token
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`

	// UserMetadata carries provider-side metadata set at signup. The role in
	// here is an advisory hint only; the profile store is authoritative.
	UserMetadata struct {
		Role string `json:"role"`
	} `json:"user_metadata"`
}

// Session represents a resolved user session. Subject is the identity
// provider's opaque subject id; RoleHint is advisory and may be empty.
type Session struct {
	Subject   string
	Email     string
	RoleHint  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// parseClaims converts verified Claims into a Session
func parseClaims(claims *Claims) (*Session, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	session := &Session{
		Subject:  claims.Subject,
		Email:    claims.Email,
		RoleHint: claims.UserMetadata.Role,
	}

	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
