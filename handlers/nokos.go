package handlers

import (
	"context"
	"net/http"

	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/services/providers/nokos"
	"github.com/upb/provider-gateway/utils"
)

const nokosKeyHint = "jasaotp api_key"

// NokosBalanceHandler handles GET /nokos/balance
func NokosBalanceHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("api_key", nokosKeyHint),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.Nokos.Balance(ctx, p.Get("api_key"))
	})
}

// NokosCountriesHandler handles GET /nokos/negara
func NokosCountriesHandler(deps *app.Dependencies) http.HandlerFunc {
	return proxyHandler(deps, fromQuery, nil, func(ctx context.Context, _ utils.Params) (interface{}, error) {
		return deps.Nokos.Countries(ctx)
	})
}

// NokosOperatorsHandler handles GET /nokos/operator
func NokosOperatorsHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("negara", ""),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.Nokos.Operators(ctx, p.Get("negara"))
	})
}

// NokosServicesHandler handles GET /nokos/layanan
func NokosServicesHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("negara", ""),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.Nokos.Services(ctx, p.Get("negara"))
	})
}

// NokosOrderHandler handles GET /nokos/order
func NokosOrderHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("api_key", nokosKeyHint),
		utils.Required("negara", ""),
		utils.Required("layanan", ""),
		utils.Required("operator", ""),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.Nokos.Order(ctx, nokos.OrderRequest{
			APIKey:   p.Get("api_key"),
			Country:  p.Get("negara"),
			Service:  p.Get("layanan"),
			Operator: p.Get("operator"),
		})
	})
}

// NokosSMSHandler handles GET /nokos/sms
func NokosSMSHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("api_key", nokosKeyHint),
		utils.Required("id", "order id"),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.Nokos.SMS(ctx, p.Get("api_key"), p.Get("id"))
	})
}

// NokosCancelHandler handles GET /nokos/cancel
func NokosCancelHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		utils.Required("api_key", nokosKeyHint),
		utils.Required("id", "order id"),
	}
	return proxyHandler(deps, fromQuery, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.Nokos.Cancel(ctx, p.Get("api_key"), p.Get("id"))
	})
}
