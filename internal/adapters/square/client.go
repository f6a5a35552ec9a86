package square

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain"
)

// HTTPClient abstracts the HTTP transport so tests can stub provider calls.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contains configuration for the provider REST client.
type Config struct {
	BaseURL     string // e.g. "https://connect.squareup.com"
	AccessToken string // bearer credential
	Version     string // fixed API-version header value
	Timeout     time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig(accessToken string) *Config {
	return &Config{
		BaseURL:     "https://connect.squareup.com",
		AccessToken: accessToken,
		Version:     "2024-08-21",
		Timeout:     30 * time.Second,
	}
}

// Client calls the provider REST API. Every request carries the bearer
// credential and the fixed API-version header.
type Client struct {
	config     *Config
	httpClient HTTPClient
	logger     *zap.Logger
}

// NewClient creates a new provider client.
func NewClient(config *Config, httpClient HTTPClient, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Square-Version", c.config.Version)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("provider request failed",
			zap.String("url", url),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return domain.WrapError(domain.ErrorCodeProviderUnavailable, "provider request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeProviderUnavailable, "read provider response", err)
	}

	c.logger.Debug("provider response",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("provider returned non-200 status",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
		)
		return domain.NewDomainError(domain.ErrorCodeProviderBadStatus,
			fmt.Sprintf("provider returned status %d", resp.StatusCode)).
			WithDetail("status_code", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.WrapError(domain.ErrorCodeProviderBadPayload, "parse provider response", err)
	}

	return nil
}
