/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// RequestIDHeader is the HTTP header used to pass request correlation IDs
const RequestIDHeader = "X-Request-Id"

// APIClient provides methods to interact with the mailgate REST API.
// Every request carries a fresh request ID so test traffic can be traced
// in server logs.
type APIClient struct {
	BaseURL string
	rest    *resty.Client
}

// NewAPIClient creates a new API client for E2E tests
func NewAPIClient() *APIClient {
	return NewAPIClientWithBaseURL(GetAPIBaseURL())
}

// NewAPIClientWithBaseURL creates an API client against a specific server.
// Helper tests use this to point at their own test backend.
func NewAPIClientWithBaseURL(baseURL string) *APIClient {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(RequestTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "mailgate-e2e")
	return &APIClient{BaseURL: baseURL, rest: rest}
}

// Recipient is one destination in a send request. Extra personalization
// fields are flattened beside email and name on the wire, matching the
// recipient contract of the send endpoints.
type Recipient struct {
	Email  string
	Name   string
	Extras map[string]interface{}
}

// MarshalJSON flattens the extra fields beside email and name
func (r Recipient) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extras)+2)
	for k, v := range r.Extras {
		out[k] = v
	}
	out["email"] = r.Email
	if r.Name != "" {
		out["name"] = r.Name
	}
	return json.Marshal(out)
}

// SendRequest is the request body for POST /send-email
type SendRequest struct {
	Recipients   []Recipient            `json:"recipients"`
	Subject      string                 `json:"subject"`
	Template     string                 `json:"template,omitempty"`
	HTML         string                 `json:"html,omitempty"`
	Context      map[string]interface{} `json:"context,omitempty"`
	FromName     string                 `json:"fromName,omitempty"`
	Individual   bool                   `json:"individual,omitempty"`
	DelaySeconds int                    `json:"delaySeconds,omitempty"`
}

// SendOutcome is one per-recipient result in individual responses
type SendOutcome struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendResponse covers both success shapes of POST /send-email: blind-copy
// responses fill MessageID, Accepted and Rejected, individual responses
// fill TotalSent, OK and Fail, and delayed responses add DurationSeconds.
type SendResponse struct {
	Mode            string        `json:"mode"`
	MessageID       string        `json:"messageId,omitempty"`
	Accepted        []string      `json:"accepted,omitempty"`
	Rejected        []string      `json:"rejected,omitempty"`
	TotalSent       int           `json:"totalSent,omitempty"`
	OK              []SendOutcome `json:"ok,omitempty"`
	Fail            []SendOutcome `json:"fail,omitempty"`
	DurationSeconds float64       `json:"durationSeconds,omitempty"`
}

// APIError is the error body returned for non-2xx responses. Error holds
// the machine-readable kind, Message the human-readable explanation.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// BuildInfo is the body of GET /version
type BuildInfo struct {
	Component string `json:"component"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// AccountInfo is one entry of GET /accounts
type AccountInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Provider    string `json:"provider"`
	Default     bool   `json:"default"`
	Enabled     bool   `json:"enabled"`
	Reason      string `json:"reason,omitempty"`
	Sender      string `json:"sender,omitempty"`
}

// sendPath returns the endpoint path for the given account. An empty
// account selects the default-account route.
func sendPath(account string) string {
	if account == "" {
		return "/send-email"
	}
	return "/send-email/" + account
}

// SendEmail posts a send request and decodes the success response.
// Non-2xx answers come back as an error carrying the server's message,
// with the raw response available for status code assertions.
func (c *APIClient) SendEmail(ctx context.Context, t *testing.T, account string, req SendRequest) (*SendResponse, *resty.Response, error) {
	var result SendResponse
	var apiErr APIError
	path := sendPath(account)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.New().String()).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return nil, resp, fmt.Errorf("POST %s failed: %w", path, err)
	}
	if t != nil {
		t.Logf("POST %s -> %d (mode=%s)", path, resp.StatusCode(), result.Mode)
	}
	if resp.IsError() {
		return nil, resp, fmt.Errorf("send rejected (%d %s): %s", resp.StatusCode(), apiErr.Error, apiErr.Message)
	}
	return &result, resp, nil
}

// MustSendEmail sends and fails the test on any transport or API error
func (c *APIClient) MustSendEmail(t *testing.T, ctx context.Context, account string, req SendRequest) *SendResponse {
	t.Helper()
	result, _, err := c.SendEmail(ctx, t, account, req)
	require.NoError(t, err, "Send should succeed")
	return result
}

// SendEmailExpectError posts an arbitrary body to a send endpoint and
// decodes the error response. The body is an interface so malformed-shape
// tests can post raw maps or strings. Fails the test if the server
// unexpectedly accepts the request.
func (c *APIClient) SendEmailExpectError(ctx context.Context, t *testing.T, account string, body interface{}) (int, *APIError) {
	t.Helper()
	var apiErr APIError
	path := sendPath(account)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.New().String()).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetError(&apiErr).
		Post(path)
	require.NoError(t, err, "Request should reach the server")
	require.True(t, resp.IsError(), "Server should reject the request, got %d: %s", resp.StatusCode(), resp.String())
	t.Logf("POST %s -> %d (error=%s, message=%s)", path, resp.StatusCode(), apiErr.Error, apiErr.Message)
	return resp.StatusCode(), &apiErr
}

// GetHealth fetches GET /health
func (c *APIClient) GetHealth(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("health check returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &health, nil
}

// GetVersion fetches GET /version
func (c *APIClient) GetVersion(ctx context.Context) (*BuildInfo, error) {
	var info BuildInfo
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/version")
	if err != nil {
		return nil, fmt.Errorf("version request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("version request returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &info, nil
}

// ListAccounts fetches GET /accounts and unwraps the account list
func (c *APIClient) ListAccounts(ctx context.Context) ([]AccountInfo, error) {
	var listing struct {
		Accounts []AccountInfo `json:"accounts"`
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&listing).
		Get("/accounts")
	if err != nil {
		return nil, fmt.Errorf("accounts request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("accounts request returned %d: %s", resp.StatusCode(), resp.String())
	}
	return listing.Accounts, nil
}

// DefaultAccount returns the account the server marks as default
func (c *APIClient) DefaultAccount(ctx context.Context) (*AccountInfo, error) {
	accounts, err := c.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Default {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("no default account among %d configured accounts", len(accounts))
}

// GetMetrics fetches the Prometheus metrics exposition as plain text
func (c *APIClient) GetMetrics(ctx context.Context) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/metrics")
	if err != nil {
		return "", fmt.Errorf("metrics request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("metrics request returned %d", resp.StatusCode())
	}
	return resp.String(), nil
}

// HealthCheck returns nil when the API answers /health with status ok
func (c *APIClient) HealthCheck(ctx context.Context) error {
	health, err := c.GetHealth(ctx)
	if err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}
	return nil
}

// WaitForAPIReady polls the health endpoint until the API answers or the
// timeout expires
func (c *APIClient) WaitForAPIReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		if lastErr = c.HealthCheck(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return fmt.Errorf("API at %s not ready after %s: %w", c.BaseURL, timeout, lastErr)
}
