package handlers

import (
	"context"
	"net/http"

	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/utils"
)

var smmKeyRule = utils.Required("key", "IndoSMM API key")

// SMMServicesHandler handles /smm/services
func SMMServicesHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{smmKeyRule}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.Services(ctx, p.Get("key"))
	})
}

// SMMAddOrderHandler handles /smm/add. Every merged parameter except the
// internal key is forwarded so service-specific fields reach the panel.
func SMMAddOrderHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		smmKeyRule,
		utils.Required("service", "service ID"),
		utils.Required("link", "target url/username"),
		utils.Required("quantity", ""),
	}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.AddOrder(ctx, p.Without(apiKeyParam))
	})
}

// SMMStatusHandler handles /smm/status
func SMMStatusHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		smmKeyRule,
		utils.RequiredOneOf("order", "orders"),
	}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.Status(ctx, p.Get("key"), p.Get("order"), p.Get("orders"))
	})
}

// SMMRefillHandler handles /smm/refill
func SMMRefillHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		smmKeyRule,
		utils.RequiredOneOf("order", "orders"),
	}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.Refill(ctx, p.Get("key"), p.Get("order"), p.Get("orders"))
	})
}

// SMMRefillStatusHandler handles /smm/refill_status
func SMMRefillStatusHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		smmKeyRule,
		utils.RequiredOneOf("refill", "refills"),
	}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.RefillStatus(ctx, p.Get("key"), p.Get("refill"), p.Get("refills"))
	})
}

// SMMCancelHandler handles /smm/cancel
func SMMCancelHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{
		smmKeyRule,
		utils.Required("orders", "comma-separated order IDs"),
	}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.Cancel(ctx, p.Get("key"), p.Get("orders"))
	})
}

// SMMBalanceHandler handles /smm/balance
func SMMBalanceHandler(deps *app.Dependencies) http.HandlerFunc {
	rules := []utils.Rule{smmKeyRule}
	return proxyHandler(deps, fromQueryAndBody, rules, func(ctx context.Context, p utils.Params) (interface{}, error) {
		return deps.SMM.Balance(ctx, p.Get("key"))
	})
}
