package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pulseplan/backend/config"
	"go.uber.org/zap"
)

// ProviderUser is an identity as the provider's admin API reports it
type ProviderUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Role string `json:"role"`
	} `json:"user_metadata"`
}

// AdminClient reads identities through the provider's privileged admin API.
// Used by profile backfill to find identities the signup flow never gave a
// profile row.
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAdminClient creates an admin API client from the identity provider config
func NewAdminClient(cfg config.IdentityConfig, logger *zap.Logger) *AdminClient {
	return &AdminClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ListUsers lists all identities known to the provider
func (c *AdminClient) ListUsers(ctx context.Context) ([]ProviderUser, error) {
	url := c.baseURL + "/auth/v1/admin/users"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var payload struct {
		Users []ProviderUser `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode admin users response: %w", err)
	}

	c.logger.Debug("listed provider identities", zap.Int("count", len(payload.Users)))
	return payload.Users, nil
}
