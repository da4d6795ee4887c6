package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/provider-gateway/app"
	"github.com/upb/provider-gateway/handlers"
	"github.com/upb/provider-gateway/middleware"
	"github.com/upb/provider-gateway/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRequestLogger(deps.Logger).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(deps),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	ops := handlers.Catalog(deps)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(deps))
		r.Get("/operations", handlers.ListOperationsHandler(ops))
	})

	// Provider operations
	for _, op := range ops {
		for _, method := range op.Methods {
			r.Method(method, op.Route(), op.Handler)
		}
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteFail(w, http.StatusNotFound, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteFail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func allowedOrigins(deps *app.Dependencies) []string {
	if deps.Config == nil || len(deps.Config.CORS.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return deps.Config.CORS.AllowedOrigins
}
