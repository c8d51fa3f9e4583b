package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal HTTP client for the authentication service. It exists
// for integration tests and sibling services; browsers talk to the JSON API
// directly.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

// NewClient creates a client for the service at baseURL (no trailing slash
// required).
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a bearer session token to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Register starts a registration flow.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", req, &resp)
	return resp, err
}

// VerifyOTP completes a registration and returns the minted session.
func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (SessionResponse, error) {
	var resp SessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/verify-otp", req, &resp)
	return resp, err
}

// ResendOTP requests a fresh verification code.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/resend-otp", ResendOTPRequest{Email: email}, nil)
}

// Login authenticates and returns the minted session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (SessionResponse, error) {
	var resp SessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", req, &resp)
	return resp, err
}

// Profile fetches the authenticated user's account view.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var resp User
	err := c.doJSON(ctx, http.MethodGet, "/v1/auth/profile", nil, &resp)
	return resp, err
}

// UpdateProfile changes username and/or email.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error) {
	var resp User
	err := c.doJSON(ctx, http.MethodPut, "/v1/auth/profile", req, &resp)
	return resp, err
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.doJSON(ctx, http.MethodPut, "/v1/auth/password", req, nil)
}

// DeleteAvatar removes the stored avatar.
func (c *Client) DeleteAvatar(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/auth/avatar", nil, nil)
}

// Chat relays a message to the AI provider.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var resp ChatResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/chat/message", req, &resp)
	return resp, err
}

// Livez reports whether the service is up.
func (c *Client) Livez(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/livez", nil, nil)
}

// Readyz reports whether the service can reach its dependencies.
func (c *Client) Readyz(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/readyz", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("authapi: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("authapi: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("authapi: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("authapi: decode response: %w", err)
		}
	}
	return nil
}
