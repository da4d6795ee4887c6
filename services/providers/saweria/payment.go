package saweria

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/upb/provider-gateway/services"
	"github.com/upb/provider-gateway/services/payments"
	"go.uber.org/zap"
)

// PaymentQR is the result of a created QRIS payment
type PaymentQR struct {
	Username   string          `json:"username"`
	DonationID string          `json:"donationId"`
	Amount     int             `json:"amount"`
	QRString   string          `json:"qrString"`
	Duration   int             `json:"duration"`
	ExpiresAt  time.Time       `json:"expiresAt"`
	Upstream   json.RawMessage `json:"upstream"`
}

// PaymentCreator creates QRIS donations on a Saweria page. It implements
// payments.Creator.
type PaymentCreator struct {
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

// NewPaymentCreator creates a payment creator on top of client
func NewPaymentCreator(client *Client, logger *zap.Logger) *PaymentCreator {
	return &PaymentCreator{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

type userEnvelope struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type donationEnvelope struct {
	Data struct {
		ID        string `json:"id"`
		AmountRaw int    `json:"amount_raw"`
		QRString  string `json:"qr_string"`
	} `json:"data"`
}

type customerInfo struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type donationRequest struct {
	Agree        bool         `json:"agree"`
	NotUnderage  bool         `json:"notUnderage"`
	Message      string       `json:"message"`
	Amount       int          `json:"amount"`
	PaymentType  string       `json:"payment_type"`
	Vote         string       `json:"vote"`
	Currency     string       `json:"currency"`
	CustomerInfo customerInfo `json:"customer_info"`
}

// CreatePayment logs in when no username is given, resolves the receiving
// account and creates a QRIS donation for req.Amount.
func (p *PaymentCreator) CreatePayment(ctx context.Context, req payments.Request) (interface{}, error) {
	username := req.Username
	if username == "" {
		resolved, err := p.usernameFromLogin(ctx, req.Email, req.Password)
		if err != nil {
			return nil, err
		}
		username = resolved
	}

	userID, err := p.userID(ctx, username)
	if err != nil {
		return nil, err
	}

	payload := donationRequest{
		Agree:       true,
		NotUnderage: true,
		Message:     req.Message,
		Amount:      req.Amount,
		PaymentType: "qris",
		Currency:    "IDR",
		CustomerInfo: customerInfo{
			FirstName: req.Name,
			Email:     req.Email,
		},
	}

	resp, err := p.client.transport.PostJSON(ctx, p.backend("donations", userID), payload, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.HTTPStatus) || resp.Body == nil {
		return nil, services.NewExternalError(
			fmt.Sprintf("Saweria payment creation failed (status %d)", resp.HTTPStatus), nil).
			WithDetail("status", resp.HTTPStatus)
	}

	var donation donationEnvelope
	if err := json.Unmarshal(resp.Body, &donation); err != nil {
		return nil, services.NewExternalError("Saweria payment response malformed", err)
	}

	amount := donation.Data.AmountRaw
	if amount == 0 {
		amount = req.Amount
	}

	p.logger.Info("saweria payment created",
		zap.String("username", username),
		zap.String("donation_id", donation.Data.ID),
		zap.Int("amount", amount))

	return &PaymentQR{
		Username:   username,
		DonationID: donation.Data.ID,
		Amount:     amount,
		QRString:   donation.Data.QRString,
		Duration:   req.Duration,
		ExpiresAt:  p.now().UTC().Add(time.Duration(req.Duration) * time.Minute),
		Upstream:   resp.Body,
	}, nil
}

func (p *PaymentCreator) usernameFromLogin(ctx context.Context, email, password string) (string, error) {
	login, err := p.client.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if !isSuccess(login.HTTPStatus) || login.Authorization == nil {
		return "", services.NewExternalError(
			fmt.Sprintf("Saweria login failed (status %d)", login.HTTPStatus), nil)
	}

	header := http.Header{}
	header.Set("Authorization", *login.Authorization)

	resp, err := p.client.transport.GetJSON(ctx, p.backend("users"), header)
	if err != nil {
		return "", err
	}

	var user userEnvelope
	if !isSuccess(resp.HTTPStatus) || resp.Body == nil || json.Unmarshal(resp.Body, &user) != nil || user.Data.Username == "" {
		return "", services.NewExternalError(
			fmt.Sprintf("Saweria profile lookup failed (status %d)", resp.HTTPStatus), nil)
	}
	return user.Data.Username, nil
}

func (p *PaymentCreator) userID(ctx context.Context, username string) (string, error) {
	resp, err := p.client.transport.GetJSON(ctx, p.backend("users", username), nil)
	if err != nil {
		return "", err
	}

	var user userEnvelope
	if !isSuccess(resp.HTTPStatus) || resp.Body == nil || json.Unmarshal(resp.Body, &user) != nil || user.Data.ID == "" {
		return "", services.NewExternalError(
			fmt.Sprintf("Saweria user %q not found (status %d)", username, resp.HTTPStatus), nil)
	}
	return user.Data.ID, nil
}

func (p *PaymentCreator) backend(segments ...string) string {
	u := p.client.backendURL
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	return u
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
