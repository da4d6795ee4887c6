package handlers

import (
	"net/http"

	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/utils"
	"go.uber.org/zap"
)

// version is reported by the status endpoint
const version = "1.0.0"

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck reports whether the allowlist is loaded and upstream
// providers are registered
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		ready := true

		if deps.Keys == nil || deps.Keys.Len() == 0 {
			checks["allowlist"] = "empty"
			ready = false
		} else {
			checks["allowlist"] = "loaded"
		}

		if deps.ProviderRegistry == nil || deps.ProviderRegistry.Count() == 0 {
			checks["providers"] = "none_configured"
			ready = false
		} else {
			checks["providers"] = "configured"
		}

		if deps.Payments.IsAvailable() {
			checks["payments"] = "enabled"
		} else {
			checks["payments"] = "disabled"
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !ready {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			deps.Logger.Warn("readiness check failed", zap.Any("checks", checks))
		}

		_ = utils.WriteJSON(w, httpStatus, map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var providerNames []string
		upstreams := map[string]string{}
		if deps.ProviderRegistry != nil {
			providerNames = deps.ProviderRegistry.ListProviders()
			for _, name := range providerNames {
				p, err := deps.ProviderRegistry.GetProvider(name)
				if err != nil {
					continue
				}
				upstreams[name] = p.BaseURL()
			}
		}

		environment := ""
		if deps.Config != nil {
			environment = deps.Config.Environment
		}

		_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"version":     version,
			"environment": environment,
			"providers":   providerNames,
			"upstreams":   upstreams,
			"payments":    deps.Payments.IsAvailable(),
		})
	}
}
