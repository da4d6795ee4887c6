package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded; charset=UTF-8"

	// InvalidJSONMessage marks a normalized result built from a non-JSON body
	InvalidJSONMessage = "Invalid JSON response"
)

// InvalidJSON is the normalized result for an upstream body that failed to
// parse as JSON. HTTPStatus is only set by strategies that report it.
type InvalidJSON struct {
	Error      string `json:"error"`
	Raw        string `json:"raw"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
}

// JSONResponse is the outcome of a JSON-body POST. Body is nil when the
// upstream did not answer with JSON.
type JSONResponse struct {
	HTTPStatus int
	Body       json.RawMessage
	Header     http.Header
}

// Transport builds exactly one outbound request per call and normalizes the
// response. Transport-level failures are returned as-is and never retried.
type Transport struct {
	doer    Doer
	headers map[string]string
}

// NewTransport creates a transport on top of the given Doer
func NewTransport(doer Doer, headers map[string]string) *Transport {
	return &Transport{
		doer:    doer,
		headers: headers,
	}
}

// GetQuery issues a GET to baseURL/endpoint with every present parameter
// attached as a query key. A non-JSON body yields *InvalidJSON.
func (t *Transport) GetQuery(ctx context.Context, baseURL, endpoint string, params map[string]string) (interface{}, error) {
	u, err := url.Parse(JoinURL(baseURL, endpoint))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	_, body, err := t.do(req)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return &InvalidJSON{Error: InvalidJSONMessage, Raw: string(body)}, nil
	}
	return json.RawMessage(body), nil
}

// PostForm issues an x-www-form-urlencoded POST to endpointURL. The raw body
// is always read first; a non-JSON body yields *InvalidJSON with the status.
func (t *Transport) PostForm(ctx context.Context, endpointURL string, params map[string]string) (interface{}, error) {
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Accept", contentTypeJSON)

	status, body, err := t.do(req)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return &InvalidJSON{Error: InvalidJSONMessage, Raw: string(body), HTTPStatus: status}, nil
	}
	return json.RawMessage(body), nil
}

// PostJSON issues a POST with a JSON-encoded body and surfaces the status
// code and response headers next to the parsed body.
func (t *Transport) PostJSON(ctx context.Context, endpointURL string, payload interface{}, header http.Header) (*JSONResponse, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	return t.roundTripJSON(req)
}

// GetJSON issues a GET and returns the status, body and headers without
// interpreting the status code.
func (t *Transport) GetJSON(ctx context.Context, endpointURL string, header http.Header) (*JSONResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", contentTypeJSON)

	return t.roundTripJSON(req)
}

func (t *Transport) roundTripJSON(req *http.Request) (*JSONResponse, error) {
	resp, err := t.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	out := &JSONResponse{
		HTTPStatus: resp.StatusCode,
		Header:     resp.Header,
	}
	if json.Valid(body) {
		out.Body = json.RawMessage(body)
	}
	return out, nil
}

func (t *Transport) do(req *http.Request) (int, []byte, error) {
	resp, err := t.send(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (t *Transport) send(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return t.doer.Do(req)
}

// JoinURL joins a base URL and a path segment with exactly one slash
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
