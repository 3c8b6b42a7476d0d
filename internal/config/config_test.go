package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables these tests depend on and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "API_BASE_PATH", "SESSION_HEADER", "SESSION_TTL",
		"STORE_BACKEND", "DATABASE_URL", "MAX_REQUEST_BODY_BYTES",
	} {
		if original, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, original) })
		}
	}
}

func TestNewServerConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIBasePath)
	assert.Equal(t, DefaultSessionHeader, cfg.SessionHeader)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.Equal(t, int64(65536), cfg.MaxRequestBodyBytes)
}

func TestNewServerConfig_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("API_BASE_PATH", "ledger/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://ledger@localhost:5432/ledger")

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "/ledger", cfg.APIBasePath)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
}

func TestValidateConfig(t *testing.T) {
	valid := func() ServerEnvironment {
		return ServerEnvironment{
			Environment:          "dev",
			Port:                 8080,
			MaxRequestBodyBytes:  1024,
			RequestTimeout:       time.Second,
			APIBasePath:          "/api/v1",
			SessionHeader:        DefaultSessionHeader,
			SessionSweepInterval: time.Minute,
			StoreBackend:         BackendMemory,
			DBMaxConnections:     4,
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *ServerEnvironment)
		wantErr bool
	}{
		{"valid", func(cfg *ServerEnvironment) {}, false},
		{"port too low", func(cfg *ServerEnvironment) { cfg.Port = 0 }, true},
		{"port too high", func(cfg *ServerEnvironment) { cfg.Port = 70000 }, true},
		{"unknown environment", func(cfg *ServerEnvironment) { cfg.Environment = "qa" }, true},
		{"zero body limit", func(cfg *ServerEnvironment) { cfg.MaxRequestBodyBytes = 0 }, true},
		{"zero request timeout", func(cfg *ServerEnvironment) { cfg.RequestTimeout = 0 }, true},
		{"empty session header", func(cfg *ServerEnvironment) { cfg.SessionHeader = " " }, true},
		{"negative ttl", func(cfg *ServerEnvironment) { cfg.SessionTTL = -time.Second }, true},
		{"ttl without sweep interval", func(cfg *ServerEnvironment) {
			cfg.SessionTTL = time.Hour
			cfg.SessionSweepInterval = 0
		}, true},
		{"unknown backend", func(cfg *ServerEnvironment) { cfg.StoreBackend = "redis" }, true},
		{"postgres without url", func(cfg *ServerEnvironment) { cfg.StoreBackend = BackendPostgres }, true},
		{"postgres with url", func(cfg *ServerEnvironment) {
			cfg.StoreBackend = BackendPostgres
			cfg.DatabaseURL = "postgres://localhost/ledger"
		}, false},
		{"postgres min above max", func(cfg *ServerEnvironment) {
			cfg.StoreBackend = BackendPostgres
			cfg.DatabaseURL = "postgres://localhost/ledger"
			cfg.DBMinConnections = 5
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validateConfig(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfig_NormalizesBasePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/api/v1", "/api/v1"},
		{"api/v1/", "/api/v1"},
		{"/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := ServerEnvironment{
			Environment:         "test",
			Port:                8080,
			MaxRequestBodyBytes: 1,
			RequestTimeout:      time.Second,
			SessionHeader:       "X-Session",
			StoreBackend:        BackendMemory,
			APIBasePath:         tt.input,
		}
		require.NoError(t, validateConfig(&cfg))
		assert.Equal(t, tt.want, cfg.APIBasePath, "input %q", tt.input)
	}
}

func TestNewClientConfig(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LEDGER_API_URL", "LEDGER_SESSION", "SESSION_HEADER", "LEDGER_CLIENT_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := NewClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.APIURL)
	assert.Equal(t, DefaultSessionHeader, cfg.SessionHeader)
	assert.Empty(t, cfg.SessionToken)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	t.Setenv("LEDGER_SESSION", "42")
	t.Setenv("LEDGER_API_URL", "http://ledger.internal/api/v1")
	cfg, err = NewClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.SessionToken)
	assert.Equal(t, "http://ledger.internal/api/v1", cfg.APIURL)

	t.Setenv("LEDGER_CLIENT_TIMEOUT", "0s")
	_, err = NewClientConfig()
	assert.Error(t, err)
}
