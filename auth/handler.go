package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pulseplan/backend/config"
	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

const sessionCookieMaxAge = 86400 * 7 // 7 days

// Credentials is the login/signup request body
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty"` // signup only, stored as metadata hint
}

// tokenResponse is the provider's password-grant answer
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Handler proxies credential flows to the identity provider. The provider
// owns passwords and token issuance; this service only forwards credentials
// and manages the session cookie.
type Handler struct {
	baseURL    string
	anonKey    string
	secure     bool
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHandler creates a new auth handler from the identity provider config
func NewHandler(cfg config.IdentityConfig, logger *zap.Logger) *Handler {
	return &Handler{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		secure:  strings.HasPrefix(cfg.BaseURL, "https"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// HandleLogin handles POST /auth/login. A successful password grant sets the
// session cookie; the routing layer takes over from the next navigation.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&creds); err != nil {
		_ = utils.WriteBadRequest(w, "Email and password are required", nil)
		return
	}

	body, status, err := h.post(r.Context(), "/auth/v1/token?grant_type=password", map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		h.logger.Warn("identity provider unreachable", zap.Error(err))
		_ = utils.WriteBadGateway(w, "Identity provider unavailable")
		return
	}
	if status != http.StatusOK {
		h.logger.Debug("login rejected", zap.Int("status", status))
		_ = utils.WriteUnauthorized(w, "Invalid email or password")
		return
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		h.logger.Error("unexpected token response", zap.Error(err))
		_ = utils.WriteBadGateway(w, "Identity provider returned an unexpected response")
		return
	}

	h.setSessionCookie(w, token.AccessToken, token.ExpiresIn)
	_ = utils.WriteOK(w, map[string]string{"status": "signed_in"})
}

// HandleSignup handles POST /auth/signup. The role lands in the provider's
// user metadata as a hint; the profile row that authorizes it is created
// separately and is the only source routing trusts.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&creds); err != nil {
		_ = utils.WriteBadRequest(w, "Email and a password of at least 8 characters are required", nil)
		return
	}

	payload := map[string]interface{}{
		"email":    creds.Email,
		"password": creds.Password,
	}
	if creds.Role != "" {
		payload["data"] = map[string]string{"role": creds.Role}
	}

	body, status, err := h.post(r.Context(), "/auth/v1/signup", payload)
	if err != nil {
		h.logger.Warn("identity provider unreachable", zap.Error(err))
		_ = utils.WriteBadGateway(w, "Identity provider unavailable")
		return
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		h.logger.Info("signup accepted", zap.String("email", creds.Email))
		_ = utils.WriteCreated(w, map[string]string{"status": "signed_up"})
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		_ = utils.WriteConflict(w, "An account with this email already exists", nil)
	case status >= 500:
		h.logger.Warn("identity provider error", zap.Int("status", status))
		_ = utils.WriteBadGateway(w, "Identity provider unavailable")
	default:
		h.logger.Debug("signup rejected", zap.Int("status", status), zap.ByteString("body", body))
		_ = utils.WriteBadRequest(w, "Signup rejected by identity provider", nil)
	}
}

// HandleLogout handles POST /auth/logout. Clearing an absent cookie is a
// no-op, so repeated logouts are harmless.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	_ = utils.WriteOK(w, map[string]string{"status": "signed_out"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expiresIn int) {
	maxAge := sessionCookieMaxAge
	if expiresIn > 0 {
		maxAge = expiresIn
	}
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// post sends a JSON payload to the provider and returns the raw response
func (h *Handler) post(ctx context.Context, path string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", h.anonKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}
