package nokos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/provider-gateway/services/providers"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(providers.ProviderConfig{BaseURL: server.URL + "/v1"}, server.Client())
}

func TestNewClient(t *testing.T) {
	client := NewClient(providers.ProviderConfig{}, http.DefaultClient)

	assert.Equal(t, "nokos", client.Name())
	assert.Equal(t, defaultBaseURL, client.BaseURL())
}

func TestClientEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client) (interface{}, error)
		wantPath  string
		wantQuery url.Values
	}{
		{
			name:      "balance",
			call:      func(c *Client) (interface{}, error) { return c.Balance(context.Background(), "jk") },
			wantPath:  "/v1/balance.php",
			wantQuery: url.Values{"api_key": {"jk"}},
		},
		{
			name:      "countries",
			call:      func(c *Client) (interface{}, error) { return c.Countries(context.Background()) },
			wantPath:  "/v1/negara.php",
			wantQuery: url.Values{},
		},
		{
			name:      "operators",
			call:      func(c *Client) (interface{}, error) { return c.Operators(context.Background(), "6") },
			wantPath:  "/v1/operator.php",
			wantQuery: url.Values{"negara": {"6"}},
		},
		{
			name:      "services",
			call:      func(c *Client) (interface{}, error) { return c.Services(context.Background(), "6") },
			wantPath:  "/v1/layanan.php",
			wantQuery: url.Values{"negara": {"6"}},
		},
		{
			name: "order",
			call: func(c *Client) (interface{}, error) {
				return c.Order(context.Background(), OrderRequest{APIKey: "jk", Country: "6", Service: "wa", Operator: "telkomsel"})
			},
			wantPath:  "/v1/order.php",
			wantQuery: url.Values{"api_key": {"jk"}, "negara": {"6"}, "layanan": {"wa"}, "operator": {"telkomsel"}},
		},
		{
			name:      "sms",
			call:      func(c *Client) (interface{}, error) { return c.SMS(context.Background(), "jk", "991") },
			wantPath:  "/v1/sms.php",
			wantQuery: url.Values{"api_key": {"jk"}, "id": {"991"}},
		},
		{
			name:      "cancel",
			call:      func(c *Client) (interface{}, error) { return c.Cancel(context.Background(), "jk", "991") },
			wantPath:  "/v1/cancel.php",
			wantQuery: url.Values{"api_key": {"jk"}, "id": {"991"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.Query())
				_, _ = w.Write([]byte(`{"success":true}`))
			})

			result, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
			assert.JSONEq(t, `{"success":true}`, string(result.(json.RawMessage)))
		})
	}
}
