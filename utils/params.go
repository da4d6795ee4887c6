package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/upb/provider-gateway/services"
)

// MaxBodyBytes caps inbound request bodies
const MaxBodyBytes = 1 << 20

// errTrailingData reports content after the top-level JSON value
var errTrailingData = errors.New("unexpected data after JSON object")

// LimitBody caps r.Body at MaxBodyBytes. Reads past the cap fail with
// *http.MaxBytesError, which the decoders report as services.ErrBodyTooLarge.
func LimitBody(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	}
}

// ReadBody reads the whole (limited) body
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, bodyError(err)
	}
	return raw, nil
}

// bodyError turns an exceeded body limit into services.ErrBodyTooLarge
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return services.ErrBodyTooLarge
	}
	return err
}

// Params is the canonical request parameter mapping. A key that is not in
// the map is absent.
type Params map[string]string

// Get returns the value for name, or "" when absent
func (p Params) Get(name string) string {
	return p[name]
}

// Lookup returns the value for name and whether it is present
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Without returns a copy of p with the named keys removed
func (p Params) Without(names ...string) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// MergeParams merges body over query; on key collision the body value wins.
func MergeParams(query, body Params) Params {
	out := make(Params, len(query)+len(body))
	for k, v := range query {
		out[k] = v
	}
	for k, v := range body {
		out[k] = v
	}
	return out
}

// QueryParams returns the first value of every URL query key
func QueryParams(r *http.Request) Params {
	return fromValues(r.URL.Query())
}

// RequestParams returns the query merged with the decoded body
func RequestParams(r *http.Request) (Params, error) {
	body, err := BodyParams(r)
	if err != nil {
		return nil, err
	}
	return MergeParams(QueryParams(r), body), nil
}

// BodyParams decodes a JSON object or form-urlencoded body. Other content
// types and empty bodies yield no parameters.
func BodyParams(r *http.Request) (Params, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return Params{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		params, err := decodeJSONBody(r.Body)
		if err != nil {
			return nil, bodyError(err)
		}
		return params, nil
	case "application/x-www-form-urlencoded":
		raw, err := ReadBody(r)
		if err != nil {
			return nil, err
		}
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, err
		}
		return fromValues(values), nil
	default:
		return Params{}, nil
	}
}

// DecodeJSONObject decodes a JSON object body into a generic map. An empty
// body yields an empty map; anything after the object is an error.
func DecodeJSONObject(r io.Reader) (map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTrailingData
	}

	if obj == nil {
		obj = map[string]interface{}{}
	}
	return obj, nil
}

func decodeJSONBody(r io.Reader) (Params, error) {
	obj, err := DecodeJSONObject(r)
	if err != nil {
		return nil, err
	}

	params := make(Params, len(obj))
	for k, v := range obj {
		s, present, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		if present {
			params[k] = s
		}
	}
	return params, nil
}

// stringify renders a decoded JSON value as a parameter string. null is
// reported as absent.
func stringify(v interface{}) (string, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case json.Number:
		return numberString(val), true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", false, err
		}
		return string(raw), true, nil
	}
}

// numberString renders integral numbers written with a fraction or exponent
// (1000.0, 1e3) as plain integers; everything else is kept verbatim.
func numberString(n json.Number) string {
	raw := n.String()
	if !strings.ContainsAny(raw, ".eE") {
		return raw
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return raw
	}
	return strconv.FormatInt(int64(f), 10)
}

func fromValues(values url.Values) Params {
	params := make(Params, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	return params
}
