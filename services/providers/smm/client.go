// Package smm proxies the IndoSMM panel API. Every call is a form-encoded
// POST to a single endpoint, selected by the "action" field.
package smm

import (
	"context"

	"github.com/upb/provider-gateway/services/providers"
)

const (
	defaultBaseURL = "https://indosmm.id/api/v2"

	providerName = "smm"
)

// Panel actions
const (
	ActionServices     = "services"
	ActionAdd          = "add"
	ActionStatus       = "status"
	ActionRefill       = "refill"
	ActionRefillStatus = "refill_status"
	ActionCancel       = "cancel"
	ActionBalance      = "balance"
)

// Client talks to the IndoSMM API
type Client struct {
	config    providers.ProviderConfig
	transport *providers.Transport
}

// NewClient creates a new IndoSMM client
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

// BaseURL returns the API endpoint
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Call posts params with the given action. The caller's map is not modified.
func (c *Client) Call(ctx context.Context, action string, params map[string]string) (interface{}, error) {
	form := make(map[string]string, len(params)+1)
	for k, v := range params {
		form[k] = v
	}
	form["action"] = action

	return c.transport.PostForm(ctx, c.config.BaseURL, form)
}

// Services lists the panel's services
func (c *Client) Services(ctx context.Context, key string) (interface{}, error) {
	return c.Call(ctx, ActionServices, map[string]string{"key": key})
}

// AddOrder places an order. params is forwarded untouched so that
// service-specific fields (runs, interval, comments, ...) reach the panel.
func (c *Client) AddOrder(ctx context.Context, params map[string]string) (interface{}, error) {
	return c.Call(ctx, ActionAdd, params)
}

// Status checks one order, or several when orders is set
func (c *Client) Status(ctx context.Context, key, order, orders string) (interface{}, error) {
	return c.Call(ctx, ActionStatus, pick(key, "order", order, "orders", orders))
}

// Refill requests a refill for one order, or several when orders is set
func (c *Client) Refill(ctx context.Context, key, order, orders string) (interface{}, error) {
	return c.Call(ctx, ActionRefill, pick(key, "order", order, "orders", orders))
}

// RefillStatus checks one refill, or several when refills is set
func (c *Client) RefillStatus(ctx context.Context, key, refill, refills string) (interface{}, error) {
	return c.Call(ctx, ActionRefillStatus, pick(key, "refill", refill, "refills", refills))
}

// Cancel cancels a comma-separated list of orders
func (c *Client) Cancel(ctx context.Context, key, orders string) (interface{}, error) {
	return c.Call(ctx, ActionCancel, map[string]string{"key": key, "orders": orders})
}

// Balance returns the panel balance
func (c *Client) Balance(ctx context.Context, key string) (interface{}, error) {
	return c.Call(ctx, ActionBalance, map[string]string{"key": key})
}

// pick sends the plural field when present, otherwise the singular one.
func pick(key, single, singleValue, plural, pluralValue string) map[string]string {
	params := map[string]string{"key": key}
	if pluralValue != "" {
		params[plural] = pluralValue
	} else {
		params[single] = singleValue
	}
	return params
}
