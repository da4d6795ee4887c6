package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/provider-gateway/services/access"
	"github.com/upb/provider-gateway/services/payments"
	"github.com/upb/provider-gateway/services/providers"
)

func TestHealthCheck(t *testing.T) {
	deps, _ := testDeps(t, respondJSON(`{}`))

	w := serve(HealthCheck(deps), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		deps, _ := testDeps(t, respondJSON(`{}`))

		w := serve(ReadinessCheck(deps), httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"status":"ready","checks":{"allowlist":"loaded","providers":"configured","payments":"enabled"}}`,
			w.Body.String())
	})

	t.Run("empty allowlist", func(t *testing.T) {
		deps, _ := testDeps(t, respondJSON(`{}`))
		deps.Keys = access.NewStaticKeys()
		deps.Payments = payments.Unavailable()

		w := serve(ReadinessCheck(deps), httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t,
			`{"status":"not_ready","checks":{"allowlist":"empty","providers":"configured","payments":"disabled"}}`,
			w.Body.String())
	})

	t.Run("no providers", func(t *testing.T) {
		deps, _ := testDeps(t, respondJSON(`{}`))
		deps.ProviderRegistry = providers.NewRegistry()

		w := serve(ReadinessCheck(deps), httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"providers":"none_configured"`)
	})
}

func TestStatusHandler(t *testing.T) {
	deps, _ := testDeps(t, respondJSON(`{}`))

	w := serve(StatusHandler(deps), httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, version, body["version"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, []interface{}{"nokos", "saweria", "smm"}, body["providers"])
	assert.Equal(t, true, body["payments"])

	upstreams, ok := body["upstreams"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, deps.Nokos.BaseURL(), upstreams["nokos"])
	assert.Equal(t, deps.SMM.BaseURL(), upstreams["smm"])
	assert.Equal(t, deps.Saweria.BaseURL(), upstreams["saweria"])
}
