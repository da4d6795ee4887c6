package saweria

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/provider-gateway/services"
	"github.com/upb/provider-gateway/services/payments"
	"github.com/upb/provider-gateway/services/providers"
	"go.uber.org/zap"
)

func newPaymentCreator(t *testing.T, mux *http.ServeMux) *PaymentCreator {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(providers.ProviderConfig{BaseURL: server.URL}, server.URL, server.Client())
	creator := NewPaymentCreator(client, zap.NewNop())
	creator.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return creator
}

func TestPaymentCreator_WithUsername(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/donee", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"data":{"id":"uid-1","username":"donee"}}`))
	})
	mux.HandleFunc("/donations/uid-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, float64(15000), payload["amount"])
		assert.Equal(t, "qris", payload["payment_type"])
		assert.Equal(t, "semangat", payload["message"])
		assert.Equal(t, "Budi", payload["customer_info"].(map[string]interface{})["first_name"])
		_, _ = w.Write([]byte(`{"data":{"id":"don-9","amount_raw":15000,"qr_string":"00020101"}}`))
	})

	creator := newPaymentCreator(t, mux)
	result, err := creator.CreatePayment(context.Background(), payments.Request{
		Username: "donee",
		Amount:   15000,
		Duration: 30,
		Name:     "Budi",
		Message:  "semangat",
	})
	require.NoError(t, err)

	qr := result.(*PaymentQR)
	assert.Equal(t, "donee", qr.Username)
	assert.Equal(t, "don-9", qr.DonationID)
	assert.Equal(t, 15000, qr.Amount)
	assert.Equal(t, "00020101", qr.QRString)
	assert.Equal(t, 30, qr.Duration)
	assert.Equal(t, time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC), qr.ExpiresAt)
}

func TestPaymentCreator_LoginFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "session-token")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":"uid-2","username":"streamer"}}`))
	})
	mux.HandleFunc("/users/streamer", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"uid-2","username":"streamer"}}`))
	})
	mux.HandleFunc("/donations/uid-2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"don-1","qr_string":"qr"}}`))
	})

	creator := newPaymentCreator(t, mux)
	result, err := creator.CreatePayment(context.Background(), payments.Request{
		Email:    "me@x.id",
		Password: "pw",
		Amount:   2000,
		Duration: 10,
	})
	require.NoError(t, err)

	qr := result.(*PaymentQR)
	assert.Equal(t, "streamer", qr.Username)
	assert.Equal(t, 2000, qr.Amount, "falls back to the requested amount")
}

func TestPaymentCreator_Failures(t *testing.T) {
	t.Run("login rejected", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := newPaymentCreator(t, mux).CreatePayment(context.Background(), payments.Request{Email: "e", Password: "p", Amount: 1})
		require.Error(t, err)
		assert.True(t, services.IsExternalError(err))
		assert.Contains(t, services.GetErrorMessage(err), "login failed (status 401)")
	})

	t.Run("unknown user", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<html>not found</html>`))
		})

		_, err := newPaymentCreator(t, mux).CreatePayment(context.Background(), payments.Request{Username: "ghost", Amount: 1})
		require.Error(t, err)
		assert.True(t, services.IsExternalError(err))
		assert.Contains(t, services.GetErrorMessage(err), `"ghost" not found`)
	})

	t.Run("donation rejected", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/donee", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"id":"uid-1"}}`))
		})
		mux.HandleFunc("/donations/uid-1", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"minimum amount"}`))
		})

		_, err := newPaymentCreator(t, mux).CreatePayment(context.Background(), payments.Request{Username: "donee", Amount: 1})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, services.GetErrorDetails(err)["status"])
	})
}
