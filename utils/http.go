package utils

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body. Exactly one of Result and Error is
// set, governed by Status.
type Envelope struct {
	Status bool        `json:"status"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// OK wraps a normalized result
func OK(result interface{}) Envelope {
	if result == nil {
		result = json.RawMessage("null")
	}
	return Envelope{Status: true, Result: result}
}

// Fail wraps an error message
func Fail(message string) Envelope {
	return Envelope{Status: false, Error: message}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK success envelope
func WriteOK(w http.ResponseWriter, result interface{}) error {
	return WriteJSON(w, http.StatusOK, OK(result))
}

// WriteFail writes a failure envelope with the given status code
func WriteFail(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, Fail(message))
}
