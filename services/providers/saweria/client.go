// Package saweria talks to the Saweria donation platform: JSON login and
// QRIS payment creation.
package saweria

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/provider-gateway/services/providers"
)

const (
	defaultBaseURL    = "https://api.saweria.co"
	defaultBackendURL = "https://backend.saweria.co"

	providerName = "saweria"
)

// Client talks to the Saweria API
type Client struct {
	config     providers.ProviderConfig
	backendURL string
	transport  *providers.Transport
}

// NewClient creates a new Saweria client. backendURL hosts the user and
// donation endpoints used for payment creation.
func NewClient(config providers.ProviderConfig, backendURL string, doer providers.Doer) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if backendURL == "" {
		backendURL = defaultBackendURL
	}

	return &Client{
		config:     config,
		backendURL: strings.TrimRight(backendURL, "/"),
		transport:  providers.NewTransport(doer, config.Headers),
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// LoginRequest holds account credentials. OTP is sent only when non-nil.
type LoginRequest struct {
	Email    string
	Password string
	OTP      *string
}

// LoginResult is relayed to the caller as-is. The session token travels in
// the Authorization response header, not in the body.
type LoginResult struct {
	HTTPStatus    int             `json:"httpStatus"`
	Body          json.RawMessage `json:"body"`
	Authorization *string         `json:"authorization"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
}

// Login posts credentials to /auth/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	payload := map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}
	if req.OTP != nil {
		payload["otp"] = *req.OTP
	}

	resp, err := c.transport.PostJSON(ctx, providers.JoinURL(c.config.BaseURL, "auth/login"), payload, nil)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		HTTPStatus: resp.HTTPStatus,
		Body:       resp.Body,
	}
	// http.Header.Get canonicalizes, so this is case-insensitive
	if token := resp.Header.Get("Authorization"); token != "" {
		result.Authorization = &token
		result.ExpiresAt = tokenExpiry(token)
	}

	return result, nil
}

// tokenExpiry reads the exp claim of a session JWT without verifying it; the
// gateway holds no key for Saweria tokens. Returns nil for opaque tokens.
func tokenExpiry(token string) *time.Time {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}
