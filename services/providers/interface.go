package providers

import (
	"net/http"
	"time"
)

// Provider represents one upstream provider family reached by the gateway
type Provider interface {
	// Name returns the provider family name (e.g., "nokos", "smm", "saweria")
	Name() string

	// BaseURL returns the fixed base URL requests are built from
	BaseURL() string
}

// Doer executes a single outbound HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProviderConfig holds common configuration for providers
type ProviderConfig struct {
	// BaseURL for the API
	BaseURL string

	// Headers added to every outbound request
	Headers map[string]string
}

// NewHTTPClient returns the shared transport used by every adapter. The
// timeout belongs to the transport; adapters never set their own.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
