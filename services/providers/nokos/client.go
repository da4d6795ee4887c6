// Package nokos proxies the JasaOTP number-rental API. Every call is a GET
// with its parameters in the query string.
package nokos

import (
	"context"

	"github.com/upb/provider-gateway/services/providers"
)

const (
	defaultBaseURL = "https://api.jasaotp.id/v1"

	providerName = "nokos"
)

// Upstream endpoints
const (
	EndpointBalance   = "balance.php"
	EndpointCountries = "negara.php"
	EndpointOperators = "operator.php"
	EndpointServices  = "layanan.php"
	EndpointOrder     = "order.php"
	EndpointSMS       = "sms.php"
	EndpointCancel    = "cancel.php"
)

// Client talks to the JasaOTP API
type Client struct {
	config    providers.ProviderConfig
	transport *providers.Transport
}

// NewClient creates a new JasaOTP client
func NewClient(config providers.ProviderConfig, doer providers.Doer) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	return &Client{
		config:    config,
		transport: providers.NewTransport(doer, config.Headers),
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

// Call performs one GET against endpoint with params as the query string.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]string) (interface{}, error) {
	return c.transport.GetQuery(ctx, c.config.BaseURL, endpoint, params)
}

// Balance returns the account balance for apiKey
func (c *Client) Balance(ctx context.Context, apiKey string) (interface{}, error) {
	return c.Call(ctx, EndpointBalance, map[string]string{"api_key": apiKey})
}

// Countries lists the countries numbers can be rented in
func (c *Client) Countries(ctx context.Context) (interface{}, error) {
	return c.Call(ctx, EndpointCountries, nil)
}

// Operators lists the operators available in a country
func (c *Client) Operators(ctx context.Context, country string) (interface{}, error) {
	return c.Call(ctx, EndpointOperators, map[string]string{"negara": country})
}

// Services lists the services available in a country
func (c *Client) Services(ctx context.Context, country string) (interface{}, error) {
	return c.Call(ctx, EndpointServices, map[string]string{"negara": country})
}

// OrderRequest describes a number rental
type OrderRequest struct {
	APIKey   string
	Country  string
	Service  string
	Operator string
}

// Order rents a number
func (c *Client) Order(ctx context.Context, req OrderRequest) (interface{}, error) {
	return c.Call(ctx, EndpointOrder, map[string]string{
		"api_key":  req.APIKey,
		"negara":   req.Country,
		"layanan":  req.Service,
		"operator": req.Operator,
	})
}

// SMS checks for a received OTP on an order
func (c *Client) SMS(ctx context.Context, apiKey, orderID string) (interface{}, error) {
	return c.Call(ctx, EndpointSMS, map[string]string{"api_key": apiKey, "id": orderID})
}

// Cancel cancels an order and refunds its balance
func (c *Client) Cancel(ctx context.Context, apiKey, orderID string) (interface{}, error) {
	return c.Call(ctx, EndpointCancel, map[string]string{"api_key": apiKey, "id": orderID})
}
