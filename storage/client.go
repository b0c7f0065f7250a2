package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pulseplan/backend/config"
	"go.uber.org/zap"
)

// ErrStorageUnavailable is returned when the document store cannot be reached
var ErrStorageUnavailable = errors.New("document store unavailable")

// Client uploads documents to the provider's storage HTTP API
type Client struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a document store client. Uploads are authorized with the
// privileged service key; reads go through public URLs.
func NewClient(cfg config.StorageConfig, serviceKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		bucket:     cfg.Bucket,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Upload stores a document under the given key and returns its public URL
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode >= 500 {
			return "", fmt.Errorf("%w: status code %d", ErrStorageUnavailable, resp.StatusCode)
		}
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("document uploaded",
		zap.String("bucket", c.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))

	return c.PublicURL(key), nil
}

// PublicURL returns the public URL for a stored object
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, key)
}
