package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pulseplan/backend/config"
	"go.uber.org/zap"
)

var (
	// ErrNoSession is returned when the request carries no session credential
	ErrNoSession = errors.New("no session credential")

	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrProviderUnavailable is returned when the identity provider cannot be
	// reached. Callers must treat this as unauthenticated, not as a fault that
	// aborts routing.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// SessionCookieName is the cookie carrying the provider-issued session token
const SessionCookieName = "session"

// Resolver resolves the session credential on incoming requests. Tokens are
// verified locally against the provider's shared JWT secret; when remote
// verification is enabled the token is additionally confirmed against the
// provider's user endpoint.
type Resolver struct {
	secret       []byte
	baseURL      string
	anonKey      string
	verifyRemote bool
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewResolver creates a session resolver from the identity provider config
func NewResolver(cfg config.IdentityConfig, logger *zap.Logger) *Resolver {
	return &Resolver{
		secret:       []byte(cfg.JWTSecret),
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		anonKey:      cfg.AnonKey,
		verifyRemote: cfg.VerifyRemote,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// TokenFromRequest extracts the session token from the request: the session
// cookie for page navigation, Authorization Bearer for API calls.
func TokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != "" {
			return token, true
		}
	}

	return "", false
}

// Resolve resolves the session on a request. A request with no credential, a
// malformed or expired token, or an unreachable provider resolves to a nil
// session with a typed error; resolution never has side effects.
func (rs *Resolver) Resolve(r *http.Request) (*Session, error) {
	tokenString, ok := TokenFromRequest(r)
	if !ok {
		return nil, ErrNoSession
	}

	session, err := rs.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if rs.verifyRemote {
		if err := rs.verifyWithProvider(r.Context(), tokenString); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// ParseToken verifies a token locally and returns the session it carries
func (rs *Resolver) ParseToken(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return rs.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return parseClaims(claims)
}

// CheckHealth probes the provider's health endpoint. Used by the readiness
// check; a provider outage makes the service unready but not unhealthy.
func (rs *Resolver) CheckHealth(ctx context.Context) error {
	if rs.baseURL == "" {
		return nil // provider not configured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", rs.anonKey)

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status code %d", ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}

// verifyWithProvider confirms the token against the provider's user endpoint.
// Network failures and 5xx responses map to ErrProviderUnavailable so callers
// can fail closed without treating the session as revoked.
func (rs *Resolver) verifyWithProvider(ctx context.Context, tokenString string) error {
	url := rs.baseURL + "/auth/v1/user"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokenString)
	req.Header.Set("apikey", rs.anonKey)

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		rs.logger.Warn("identity provider unreachable", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrInvalidToken
	default:
		rs.logger.Warn("unexpected identity provider response", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status code %d", ErrProviderUnavailable, resp.StatusCode)
	}
}
