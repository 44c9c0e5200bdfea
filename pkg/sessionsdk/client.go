package sessionsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a low-level client for the Quill session service. It covers
// the unauthenticated credential endpoints; for protected resources use a
// SessionManager, which layers token attachment and renewal on top.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a session service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges a username and password for a token pair.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*AuthPayload, error) {
	var payload AuthPayload
	err := c.postJSON(ctx, "/login", loginRequest{Username: username, Password: password}, "", &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates a new account and returns its first token pair.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.postJSON(ctx, "/register", req, "", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FederatedLogin exchanges an external OIDC ID token for a token pair,
// creating the account on first sight.
func (c *SDKClient) FederatedLogin(ctx context.Context, idToken string) (*AuthPayload, error) {
	var payload AuthPayload
	err := c.postJSON(ctx, "/federated-login", federatedLoginRequest{IDToken: idToken}, "", &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Refresh rotates a refresh token for a fresh pair. The presented token is
// consumed: whether or not the call succeeds, it will not work twice.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AuthPayload, error) {
	var payload AuthPayload
	err := c.postJSON(ctx, "/refresh", refreshRequest{RefreshToken: refreshToken}, "", &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout revokes the server-side session record. Requires a valid access
// token.
func (c *SDKClient) Logout(ctx context.Context, accessToken string) error {
	return c.postJSON(ctx, "/logout", struct{}{}, accessToken, nil)
}

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// postJSON sends a JSON body to path and decodes the success envelope into
// out. A bearer token is attached when non-empty.
func (c *SDKClient) postJSON(ctx context.Context, path string, body any, bearer string, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	return decodeEnvelope(resp, out)
}

// decodeEnvelope unwraps the service's {success, data, message} envelope.
// Non-2xx responses and envelopes with success=false become APIErrors.
func decodeEnvelope(resp *http.Response, out any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return &APIError{
			Status:  resp.StatusCode,
			Message: http.StatusText(resp.StatusCode),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
