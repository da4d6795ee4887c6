package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/upb/provider-gateway/config"
	"github.com/upb/provider-gateway/services/access"
	"github.com/upb/provider-gateway/services/payments"
	"github.com/upb/provider-gateway/services/providers"
	"github.com/upb/provider-gateway/services/providers/nokos"
	"github.com/upb/provider-gateway/services/providers/saweria"
	"github.com/upb/provider-gateway/services/providers/smm"
	"go.uber.org/zap"
)

// userAgent is sent on every upstream request
const userAgent = "provider-gateway/1.0"

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config     *config.Config
	Logger     *zap.Logger
	HTTPClient *http.Client

	// Access allowlist. Keys is what handlers read; KeyStore is set when the
	// allowlist is backed by env/file and can be reloaded.
	Keys     access.KeySet
	KeyStore *access.Store

	// Upstream clients
	Nokos   *nokos.Client
	SMM     *smm.Client
	Saweria *saweria.Client

	// Optional payment integration, resolved once at startup
	Payments payments.Capability

	// Provider Registry
	ProviderRegistry *providers.Registry
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:     cfg,
		Logger:     logger,
		HTTPClient: providers.NewHTTPClient(cfg.Upstream.Timeout),
	}

	// Initialize allowlist
	if err := deps.initAccess(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize allowlist: %w", err)
	}

	// Initialize provider registry
	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	// Initialize payment capability
	deps.initPayments(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initAccess loads the allowlist from API_KEYS and API_KEYS_FILE
func (d *Dependencies) initAccess(cfg *config.Config) error {
	store := access.NewStore(cfg.Access.Keys, cfg.Access.KeysFile, d.Logger)
	if err := store.Reload(); err != nil {
		return err
	}

	if store.Len() == 0 {
		d.Logger.Warn("allowlist is empty, every request will be rejected")
	}

	d.KeyStore = store
	d.Keys = store
	return nil
}

// initProviders creates the upstream clients and registers them
func (d *Dependencies) initProviders(cfg *config.Config) error {
	headers := map[string]string{"User-Agent": userAgent}

	d.Nokos = nokos.NewClient(providers.ProviderConfig{
		BaseURL: cfg.Upstream.Nokos.BaseURL,
		Headers: headers,
	}, d.HTTPClient)

	d.SMM = smm.NewClient(providers.ProviderConfig{
		BaseURL: cfg.Upstream.SMM.BaseURL,
		Headers: headers,
	}, d.HTTPClient)

	d.Saweria = saweria.NewClient(providers.ProviderConfig{
		BaseURL: cfg.Upstream.Saweria.APIURL,
		Headers: headers,
	}, cfg.Upstream.Saweria.BackendURL, d.HTTPClient)

	registry := providers.NewRegistry()
	for _, p := range []providers.Provider{d.Nokos, d.SMM, d.Saweria} {
		if err := registry.RegisterProvider(p); err != nil {
			return err
		}
		d.Logger.Info("provider registered",
			zap.String("provider", p.Name()),
			zap.String("base_url", p.BaseURL()))
	}

	d.ProviderRegistry = registry
	return nil
}

func (d *Dependencies) initPayments(cfg *config.Config) {
	if !cfg.Upstream.Saweria.PaymentsEnabled {
		d.Logger.Warn("saweria payments disabled, createpayment will report the missing integration")
		d.Payments = payments.Unavailable()
		return
	}

	d.Payments = payments.Available(saweria.NewPaymentCreator(d.Saweria, d.Logger))
	d.Logger.Info("saweria payment integration enabled")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.HTTPClient != nil {
		d.HTTPClient.CloseIdleConnections()
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
