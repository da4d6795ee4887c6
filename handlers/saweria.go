package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/middleware"
	"github.com/upb/provider-gateway/services"
	"github.com/upb/provider-gateway/services/payments"
	"github.com/upb/provider-gateway/services/providers/saweria"
	"github.com/upb/provider-gateway/utils"
	"go.uber.org/zap"
)

const (
	defaultPaymentDuration = 30
	defaultDonorName       = "Donatur"
)

// SaweriaLoginHandler handles /saweria/login
func SaweriaLoginHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("email", ""),
		utils.Required("password", ""),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		req := saweria.LoginRequest{
			Email:    p.Get("email"),
			Password: p.Get("password"),
		}
		if otp, ok := p.Lookup("otp"); ok {
			req.OTP = &otp
		}

		result, err := deps.Saweria.Login(ctx, req)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// SaweriaCreatePaymentHandler handles /saweria/createpayment
func SaweriaCreatePaymentHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		{Field: "amount", Tag: "number"},
		{
			AnyOf:   [][]string{{"username"}, {"email", "password"}},
			Message: "Provide either saweria username or email+password for login",
		},
		{Field: "duration", Tag: "number", Optional: true},
	}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		req, err := paymentRequest(p)
		if err != nil {
			return nil, err
		}
		return deps.Payments.CreatePayment(ctx, req)
	})
}

// paymentRequest builds a payment request from validated parameters
func paymentRequest(p utils.Params) (payments.Request, error) {
	amount, err := strconv.Atoi(p.Get("amount"))
	if err != nil {
		return payments.Request{}, services.NewValidationError("Invalid amount")
	}

	duration := defaultPaymentDuration
	if raw := p.Get("duration"); raw != "" {
		if duration, err = strconv.Atoi(raw); err != nil {
			return payments.Request{}, services.NewValidationError("Invalid duration")
		}
	}

	name := p.Get("name")
	if name == "" {
		name = defaultDonorName
	}

	return payments.Request{
		Username: p.Get("username"),
		Email:    p.Get("email"),
		Password: p.Get("password"),
		Amount:   amount,
		Duration: duration,
		Name:     name,
		Message:  p.Get("msg"),
	}, nil
}

// WebhookReceipt acknowledges a webhook delivery
type WebhookReceipt struct {
	Status    bool            `json:"status"`
	Received  json.RawMessage `json:"received"`
	ReceiptID string          `json:"receiptId"`
}

// SaweriaWebhookHandler handles POST /saweria/webhook. The payload is echoed
// back unverified; no API key is required.
// TODO: verify the Saweria stream key signature once a shared secret is configurable.
func SaweriaWebhookHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := deps.Logger.With(zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))

		utils.LimitBody(w, r)
		raw, err := utils.ReadBody(r)
		if err != nil {
			if services.GetErrorType(err) == "" {
				err = services.NewDomainError(services.ErrorTypeBadRequest,
					services.ErrInvalidBody.Message, err)
			}
			HandleServiceError(w, err, logger)
			return
		}

		payload := bytes.TrimSpace(raw)
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		if !json.Valid(payload) {
			HandleServiceError(w, services.ErrInvalidBody, logger)
			return
		}

		receipt := WebhookReceipt{
			Status:    true,
			Received:  json.RawMessage(payload),
			ReceiptID: uuid.NewString(),
		}

		logger.Info("saweria webhook received",
			zap.String("receipt_id", receipt.ReceiptID),
			zap.Int("bytes", len(payload)))

		if err := utils.WriteJSON(w, http.StatusOK, receipt); err != nil {
			logger.Error("failed to write webhook response", zap.Error(err))
		}
	}
}
