package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/config"
	"github.com/upb/provider-gateway/services/access"
	"github.com/upb/provider-gateway/services/payments"
	"github.com/upb/provider-gateway/services/providers"
	"github.com/upb/provider-gateway/services/providers/nokos"
	"github.com/upb/provider-gateway/services/providers/saweria"
	"github.com/upb/provider-gateway/services/providers/smm"
	"go.uber.org/zap"
)

const validKey = "valid-key"

// recorded is one request seen by an upstream double
type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Header http.Header
	Body   []byte
}

// upstream is an httptest server that counts and records every request
type upstream struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recorded
}

func newUpstream(t *testing.T, respond http.HandlerFunc) *upstream {
	t.Helper()

	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec := recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			rec.Form, _ = url.ParseQuery(string(body))
		}

		u.mu.Lock()
		u.requests = append(u.requests, rec)
		u.mu.Unlock()

		respond(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *upstream) Last() recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[len(u.requests)-1]
}

// respondJSON answers every request with the given JSON body
func respondJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

// respondText answers every request with a non-JSON body
func respondText(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// upstreams groups the doubles behind a test Dependencies
type upstreams struct {
	nokos   *upstream
	smm     *upstream
	saweria *upstream
	backend *upstream
}

func (u upstreams) totalCalls() int {
	return u.nokos.Calls() + u.smm.Calls() + u.saweria.Calls() + u.backend.Calls()
}

// testDeps wires handlers against upstream doubles that all answer respond
func testDeps(t *testing.T, respond http.HandlerFunc) (*app.Dependencies, upstreams) {
	t.Helper()
	ups := upstreams{
		nokos:   newUpstream(t, respond),
		smm:     newUpstream(t, respond),
		saweria: newUpstream(t, respond),
		backend: newUpstream(t, respond),
	}
	return depsFor(t, ups), ups
}

func depsFor(t *testing.T, ups upstreams) *app.Dependencies {
	t.Helper()
	client := providers.NewHTTPClient(5 * time.Second)
	logger := zap.NewNop()

	sawClient := saweria.NewClient(providers.ProviderConfig{BaseURL: ups.saweria.URL}, ups.backend.URL, client)

	registry := providers.NewRegistry()
	deps := &app.Dependencies{
		Config:           &config.Config{Environment: "test"},
		Logger:           logger,
		HTTPClient:       client,
		Keys:             access.NewStaticKeys(validKey),
		Nokos:            nokos.NewClient(providers.ProviderConfig{BaseURL: ups.nokos.URL + "/v1"}, client),
		SMM:              smm.NewClient(providers.ProviderConfig{BaseURL: ups.smm.URL + "/api/v2"}, client),
		Saweria:          sawClient,
		Payments:         payments.Available(saweria.NewPaymentCreator(sawClient, logger)),
		ProviderRegistry: registry,
	}
	for _, p := range []providers.Provider{deps.Nokos, deps.SMM, deps.Saweria} {
		require.NoError(t, registry.RegisterProvider(p))
	}
	return deps
}

// serve runs handler against a request and returns the recorder
func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// decodeEnvelope decodes a response body into a generic map
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
