package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"

	// DefaultSessionHeader is the header existing clients send the session token in.
	DefaultSessionHeader = "WWW_Authenticate"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	MaxRequestBodyBytes   int64         `env:"MAX_REQUEST_BODY_BYTES,default=65536"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`

	// API settings
	APIBasePath   string `env:"API_BASE_PATH,default=/api/v1"`
	SessionHeader string `env:"SESSION_HEADER,default=WWW_Authenticate"`

	// sessions never expire when SESSION_TTL is 0
	SessionTTL           time.Duration `env:"SESSION_TTL,default=0s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL,default=1m"`

	// storage settings - DATABASE_URL is only required for the postgres backend
	StoreBackend        string        `env:"STORE_BACKEND,default=memory"`
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

var validBackends = map[string]bool{
	BackendMemory:   true,
	BackendPostgres: true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil

}

// validateConfig checks ranges and backend specific requirements.
// It also normalizes API_BASE_PATH to a leading slash without a trailing one.
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.MaxRequestBodyBytes < 1 {
		return fmt.Errorf("MAX_REQUEST_BODY_BYTES must be at least 1")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be greater than 0")
	}

	if strings.TrimSpace(cfg.SessionHeader) == "" {
		return fmt.Errorf("SESSION_HEADER must not be empty")
	}
	if cfg.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must be 0 (no expiry) or greater")
	}
	if cfg.SessionTTL > 0 && cfg.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be greater than 0 when SESSION_TTL is set")
	}

	base := "/" + strings.Trim(strings.TrimSpace(cfg.APIBasePath), "/")
	if base == "/" {
		base = ""
	}
	cfg.APIBasePath = base

	if !validBackends[cfg.StoreBackend] {
		return fmt.Errorf("invalid STORE_BACKEND: %s (must be %s or %s)", cfg.StoreBackend, BackendMemory, BackendPostgres)
	}
	if cfg.StoreBackend != BackendPostgres {
		return nil
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %s", BackendPostgres)
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}

	return nil
}

// ClientEnvironment configures ledger-cli. Flags override these values.
type ClientEnvironment struct {
	Environment   string        `env:"ENVIRONMENT,default=dev"`
	LogLevel      string        `env:"LOG_LEVEL,default=warn"`
	APIURL        string        `env:"LEDGER_API_URL,default=http://localhost:8080/api/v1"`
	SessionToken  string        `env:"LEDGER_SESSION"`
	SessionHeader string        `env:"SESSION_HEADER,default=WWW_Authenticate"`
	Timeout       time.Duration `env:"LEDGER_CLIENT_TIMEOUT,default=30s"`
}

// NewClientConfig loads the ledger-cli settings from the environment.
func NewClientConfig() (*ClientEnvironment, error) {
	var cfg ClientEnvironment

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}
	if !validEnvs[cfg.Environment] {
		return nil, fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, fmt.Errorf("LEDGER_API_URL must not be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("LEDGER_CLIENT_TIMEOUT must be greater than 0")
	}
	return &cfg, nil
}
