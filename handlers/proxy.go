package handlers

import (
	"context"
	"net/http"

	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/middleware"
	"github.com/upb/provider-gateway/services"
	"github.com/upb/provider-gateway/services/access"
	"github.com/upb/provider-gateway/utils"
	"go.uber.org/zap"
)

// apiKeyParam carries the caller's internal key. It is never forwarded.
const apiKeyParam = "apikey"

// paramSource extracts the canonical parameters of one request
type paramSource func(r *http.Request) (utils.Params, error)

// upstreamCall performs the single outbound call of an operation
type upstreamCall func(ctx context.Context, params utils.Params) (interface{}, error)

// fromQuery reads parameters from the URL query only
func fromQuery(r *http.Request) (utils.Params, error) {
	return utils.QueryParams(r), nil
}

// fromQueryAndBody merges the decoded body over the URL query
func fromQueryAndBody(r *http.Request) (utils.Params, error) {
	return utils.RequestParams(r)
}

// proxyHandler runs the access gate, then the ordered rules, then exactly one
// upstream call, and writes a single envelope for whichever step ends the
// request.
func proxyHandler(deps *app.Dependencies, source paramSource, rules []utils.Rule, call upstreamCall) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := deps.Logger.With(zap.String("request_id", middleware.GetRequestIDFromContext(ctx)))

		utils.LimitBody(w, r)
		params, decodeErr := source(r)

		// The key may live in the body; fall back to the query when it cannot be read
		presented := utils.QueryParams(r).Get(apiKeyParam)
		if decodeErr == nil {
			presented = params.Get(apiKeyParam)
		}

		if !access.Allowed(deps.Keys, presented) {
			HandleServiceError(w, services.ErrInvalidAPIKey, logger)
			return
		}

		if decodeErr != nil {
			if services.GetErrorType(decodeErr) == "" {
				decodeErr = services.NewDomainError(services.ErrorTypeBadRequest,
					services.ErrInvalidBody.Message, decodeErr)
			}
			HandleServiceError(w, decodeErr, logger)
			return
		}

		if err := utils.ValidateParams(params, rules); err != nil {
			HandleServiceError(w, err, logger)
			return
		}

		result, err := call(ctx, params)
		if err != nil {
			HandleServiceError(w, err, logger)
			return
		}

		if err := utils.WriteOK(w, result); err != nil {
			logger.Error("failed to write response", zap.Error(err))
		}
	}
}
