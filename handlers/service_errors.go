package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/upb/provider-gateway/services"
	"github.com/upb/provider-gateway/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to a failure envelope.
// Auth and validation failures are reported with HTTP 200, malformed bodies
// and missing integrations with 400, oversized bodies with 413, everything
// else with 500.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	message := errorMessage(err)

	switch {
	case services.IsUnauthorizedError(err):
		status = http.StatusOK
		logger.Debug("rejected api key")

	case services.IsValidationError(err):
		status = http.StatusOK
		logger.Debug("parameter validation failed", zap.String("message", message))

	case services.IsBadRequestError(err):
		status = http.StatusBadRequest
		logger.Warn("malformed request", zap.Error(errors.Unwrap(err)))

	case services.IsPayloadTooLargeError(err):
		status = http.StatusRequestEntityTooLarge
		logger.Warn("request body too large")

	case services.IsDependencyMissingError(err):
		status = http.StatusBadRequest
		logger.Warn("optional integration unavailable", zap.String("message", message))

	case services.IsExternalError(err):
		logger.Error("upstream provider error",
			zap.String("message", message),
			zap.Any("details", services.GetErrorDetails(err)))

	default:
		// Transport failures land here; message never includes the request URL
		logger.Error("upstream call failed", zap.String("error", message))
	}

	if err := utils.WriteFail(w, status, message); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}

// errorMessage returns the caller-facing message for err. Errors from
// http.Client embed the request URL, query string included, so only the
// underlying cause is reported.
func errorMessage(err error) string {
	if services.GetErrorType(err) == "" {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return urlErr.Err.Error()
		}
	}
	return services.GetErrorMessage(err)
}
