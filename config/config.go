package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Access        AccessConfig
	Upstream      UpstreamConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AccessConfig describes where the internal API key allowlist comes from.
// Keys and the YAML file are unioned.
type AccessConfig struct {
	Keys      []string // From API_KEYS (comma-separated)
	KeysFile  string   // YAML file with a top-level "keys" list
	WatchFile bool     // Reload KeysFile when it changes
}

// UpstreamConfig holds the third-party provider endpoints
type UpstreamConfig struct {
	Timeout time.Duration // Applied to the shared HTTP client
	Nokos   ProviderConfig
	SMM     ProviderConfig
	Saweria SaweriaConfig
}

// ProviderConfig holds a single upstream base URL
type ProviderConfig struct {
	BaseURL string
}

// SaweriaConfig holds Saweria endpoints and the payment integration switch
type SaweriaConfig struct {
	APIURL          string // Login API
	BackendURL      string // User lookup and donation API
	PaymentsEnabled bool
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Access: AccessConfig{
			Keys:      getEnvAsList("API_KEYS"),
			KeysFile:  getEnv("API_KEYS_FILE", ""),
			WatchFile: getEnvAsBool("API_KEYS_WATCH", true),
		},
		Upstream: UpstreamConfig{
			Timeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			Nokos: ProviderConfig{
				BaseURL: getEnv("NOKOS_BASE_URL", "https://api.jasaotp.id/v1"),
			},
			SMM: ProviderConfig{
				BaseURL: getEnv("SMM_API_URL", "https://indosmm.id/api/v2"),
			},
			Saweria: SaweriaConfig{
				APIURL:          getEnv("SAWERIA_API_URL", "https://api.saweria.co"),
				BackendURL:      getEnv("SAWERIA_BACKEND_URL", "https://backend.saweria.co"),
				PaymentsEnabled: getEnvAsBool("SAWERIA_PAYMENTS_ENABLED", true),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsListDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	upstreams := map[string]string{
		"NOKOS_BASE_URL":      c.Upstream.Nokos.BaseURL,
		"SMM_API_URL":         c.Upstream.SMM.BaseURL,
		"SAWERIA_API_URL":     c.Upstream.Saweria.APIURL,
		"SAWERIA_BACKEND_URL": c.Upstream.Saweria.BackendURL,
	}
	for name, raw := range upstreams {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	// An empty allowlist rejects every request; refuse to start that way in production
	if c.IsProduction() && len(c.Access.Keys) == 0 && c.Access.KeysFile == "" {
		return fmt.Errorf("API_KEYS or API_KEYS_FILE is required in production")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	return getEnvAsInt("PORT", getEnvAsInt("SERVER_PORT", 8080))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsListDefault(key string, defaultValue []string) []string {
	if list := getEnvAsList(key); len(list) > 0 {
		return list
	}
	return defaultValue
}
