package handlers

import (
	"net/http"
	"strings"

	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/utils"
)

// Operation describes one exposed capability
type Operation struct {
	Name        string           `json:"name"`
	Description string           `json:"desc"`
	Category    string           `json:"category"`
	Path        string           `json:"path"` // documented template, placeholder query included
	Methods     []string         `json:"methods"`
	Handler     http.HandlerFunc `json:"-"`
}

// Route returns the path the operation is mounted on
func (o Operation) Route() string {
	if i := strings.IndexByte(o.Path, '?'); i >= 0 {
		return o.Path[:i]
	}
	return o.Path
}

var getOrPost = []string{http.MethodGet, http.MethodPost}

// Catalog returns every operation in registration order
func Catalog(deps *app.Dependencies) []Operation {
	return []Operation{
		{
			Name:        "Nokos - Check Balance",
			Description: "Check the JasaOTP account balance",
			Category:    "Nokos",
			Path:        "/nokos/balance?apikey=&api_key=",
			Methods:     getOrPost,
			Handler:     NokosBalanceHandler(deps),
		},
		{
			Name:        "Nokos - List Countries",
			Description: "List the countries JasaOTP rents numbers in",
			Category:    "Nokos",
			Path:        "/nokos/negara?apikey=",
			Methods:     getOrPost,
			Handler:     NokosCountriesHandler(deps),
		},
		{
			Name:        "Nokos - Get Operators",
			Description: "List operators for a country",
			Category:    "Nokos",
			Path:        "/nokos/operator?apikey=&negara=",
			Methods:     getOrPost,
			Handler:     NokosOperatorsHandler(deps),
		},
		{
			Name:        "Nokos - Get Services",
			Description: "List services and prices for a country",
			Category:    "Nokos",
			Path:        "/nokos/layanan?apikey=&negara=",
			Methods:     getOrPost,
			Handler:     NokosServicesHandler(deps),
		},
		{
			Name:        "Nokos - Create Order",
			Description: "Rent a number for a service",
			Category:    "Nokos",
			Path:        "/nokos/order?apikey=&api_key=&negara=&layanan=&operator=",
			Methods:     getOrPost,
			Handler:     NokosOrderHandler(deps),
		},
		{
			Name:        "Nokos - Check SMS",
			Description: "Check for a received OTP on an order",
			Category:    "Nokos",
			Path:        "/nokos/sms?apikey=&api_key=&id=",
			Methods:     getOrPost,
			Handler:     NokosSMSHandler(deps),
		},
		{
			Name:        "Nokos - Cancel Order",
			Description: "Cancel an order and refund its balance",
			Category:    "Nokos",
			Path:        "/nokos/cancel?apikey=&api_key=&id=",
			Methods:     getOrPost,
			Handler:     NokosCancelHandler(deps),
		},
		{
			Name:        "SMM - Services (list)",
			Description: "List IndoSMM services (action=services)",
			Category:    "SMM",
			Path:        "/smm/services?apikey=&key=",
			Methods:     getOrPost,
			Handler:     SMMServicesHandler(deps),
		},
		{
			Name:        "SMM - Add Order",
			Description: "Create an order (action=add). Extra service parameters are forwarded as given.",
			Category:    "SMM",
			Path:        "/smm/add?apikey=&key=&service=&link=&quantity=",
			Methods:     getOrPost,
			Handler:     SMMAddOrderHandler(deps),
		},
		{
			Name:        "SMM - Order Status",
			Description: "Check order status (action=status). Use order for one order or orders for several.",
			Category:    "SMM",
			Path:        "/smm/status?apikey=&key=&order=",
			Methods:     getOrPost,
			Handler:     SMMStatusHandler(deps),
		},
		{
			Name:        "SMM - Refill",
			Description: "Request a refill (action=refill). Use order or orders.",
			Category:    "SMM",
			Path:        "/smm/refill?apikey=&key=&order=",
			Methods:     getOrPost,
			Handler:     SMMRefillHandler(deps),
		},
		{
			Name:        "SMM - Refill Status",
			Description: "Check refill status (action=refill_status). Use refill or refills.",
			Category:    "SMM",
			Path:        "/smm/refill_status?apikey=&key=&refill=",
			Methods:     getOrPost,
			Handler:     SMMRefillStatusHandler(deps),
		},
		{
			Name:        "SMM - Cancel Orders",
			Description: "Cancel orders (action=cancel)",
			Category:    "SMM",
			Path:        "/smm/cancel?apikey=&key=&orders=",
			Methods:     getOrPost,
			Handler:     SMMCancelHandler(deps),
		},
		{
			Name:        "SMM - Balance",
			Description: "Check the IndoSMM balance (action=balance)",
			Category:    "SMM",
			Path:        "/smm/balance?apikey=&key=",
			Methods:     getOrPost,
			Handler:     SMMBalanceHandler(deps),
		},
		{
			Name:        "Saweria Login",
			Description: "Log in to Saweria and return the JWT from the Authorization header",
			Category:    "Saweria",
			Path:        "/saweria/login?apikey=&email=&password=&otp=",
			Methods:     getOrPost,
			Handler:     SaweriaLoginHandler(deps),
		},
		{
			Name:        "Saweria Create Payment (QRIS)",
			Description: "Create a QRIS donation payment for a Saweria account",
			Category:    "Saweria",
			Path:        "/saweria/createpayment",
			Methods:     getOrPost,
			Handler:     SaweriaCreatePaymentHandler(deps),
		},
		{
			Name:        "Saweria Webhook Receiver",
			Description: "Receive Saweria donation notifications",
			Category:    "Saweria",
			Path:        "/saweria/webhook",
			Methods:     []string{http.MethodPost},
			Handler:     SaweriaWebhookHandler(deps),
		},
	}
}

// ListOperationsHandler handles GET /api/operations
func ListOperationsHandler(ops []Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, ops)
	}
}
