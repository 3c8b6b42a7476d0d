//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/server"
	"github.com/information-sharing-networks/ledger-demo/internal/services"
)

const testDatabaseName = "tmp_ledger_integration_test"

// testEnv provides access to the running server
type testEnv struct {
	baseURL  string
	apiURL   string
	cfg      *config.ServerEnvironment
	shutdown func()
}

// backends returns the store backends the tests run against.
func backends() []string {
	b := []string{config.BackendMemory}
	if os.Getenv("LEDGER_TEST_DATABASE_URL") != "" {
		b = append(b, config.BackendPostgres)
	}
	return b
}

// forEachBackend runs fn as a subtest against a fresh server for every available backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	for _, backend := range backends() {
		t.Run(backend, func(t *testing.T) {
			env := startInProcessServer(t, backend, nil)
			defer env.shutdown()
			fn(t, env)
		})
	}
}

// startInProcessServer starts ledger-server in-process for testing.
// extraEnv is applied after the defaults, e.g. to shorten SESSION_TTL.
func startInProcessServer(t *testing.T, backend string, extraEnv map[string]string) *testEnv {
	t.Helper()

	testEnv := &testEnv{}

	t.Logf("Starting in-process server (%s backend)...", backend)

	var (
		ctx          = context.Background()
		host         = "localhost"
		port         = findFreePort(t)
		rateLimitRPS = 0
		environment  = "test"
		logLevel     = logger.ParseLogLevel("none")
	)

	enableServerLogs := os.Getenv("ENABLE_SERVER_LOGS") == "true"
	if enableServerLogs {
		logLevel = logger.ParseLogLevel("debug")
	}

	testEnvVars := map[string]string{
		"HOST":           host,
		"PORT":           fmt.Sprintf("%d", port),
		"RATE_LIMIT_RPS": fmt.Sprintf("%d", rateLimitRPS),
		"ENVIRONMENT":    environment,
		"LOG_LEVEL":      logLevel.String(),
		"API_BASE_PATH":  "/api/v1",
		"SESSION_HEADER": config.DefaultSessionHeader,
		"SESSION_TTL":    "0s",
		"STORE_BACKEND":  backend,
		"DATABASE_URL":   "",
	}
	if backend == config.BackendPostgres {
		testEnvVars["DATABASE_URL"] = setupTestDatabase(t)
	}
	for key, value := range extraEnv {
		testEnvVars[key] = value
	}

	// Save original env vars and set test values
	originalEnvVars := make(map[string]string)
	for key, value := range testEnvVars {
		originalEnvVars[key] = os.Getenv(key)
		os.Setenv(key, value)
	}

	// Restore original environment variables when test completes
	t.Cleanup(func() {
		for key, original := range originalEnvVars {
			if original != "" {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		}
	})

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.InitLogger(logLevel, environment)

	svc, err := services.NewServices(ctx, cfg, appLogger)
	if err != nil {
		t.Fatalf("Failed to create storage backend: %v", err)
	}

	serverInstance := server.NewServer(svc.Backend, cfg, appLogger)

	// Create a cancellable context for server shutdown
	serverCtx, serverCancel := context.WithCancel(ctx)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	testEnv.shutdown = func() {
		t.Log("Stopping server...")

		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("Server shutdown with error: %v", err)
			} else {
				t.Log("Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("Server shutdown timeout")
		}

		serverInstance.BackendShutdown()
	}

	testEnv.baseURL = fmt.Sprintf("http://localhost:%d", port)
	testEnv.apiURL = testEnv.baseURL + cfg.APIBasePath
	testEnv.cfg = cfg

	if !waitForServer(t, testEnv.baseURL+"/health/ready", 30*time.Second) {
		testEnv.shutdown()
		t.Fatal("Server failed to start within timeout")
	}

	t.Logf("Server started at %s", testEnv.baseURL)
	return testEnv
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// setupTestDatabase creates an empty test database next to the one LEDGER_TEST_DATABASE_URL points at
// and returns its connection URL. The server applies the migrations on start.
// The database is dropped when the test completes.
func setupTestDatabase(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	adminURL := os.Getenv("LEDGER_TEST_DATABASE_URL")

	adminPool, err := pgxpool.New(ctx, adminURL)
	if err != nil {
		t.Fatalf("Unable to create postgres connection pool: %v", err)
	}
	t.Cleanup(adminPool.Close)

	if err := adminPool.Ping(ctx); err != nil {
		t.Fatalf("Can't ping PostgreSQL server: %v", err)
	}

	if _, err := adminPool.Exec(ctx, "DROP DATABASE IF EXISTS "+testDatabaseName+" WITH (FORCE)"); err != nil {
		t.Fatalf("DROP DATABASE IF EXISTS failed: %v", err)
	}
	if _, err := adminPool.Exec(ctx, "CREATE DATABASE "+testDatabaseName); err != nil {
		t.Fatalf("CREATE DATABASE failed: %v", err)
	}

	// registered after adminPool.Close so it runs first
	t.Cleanup(func() {
		if _, err := adminPool.Exec(ctx, "DROP DATABASE IF EXISTS "+testDatabaseName+" WITH (FORCE)"); err != nil {
			t.Errorf("Failed to drop test database: %v", err)
		}
	})

	u, err := url.Parse(adminURL)
	if err != nil {
		t.Fatalf("Failed to parse LEDGER_TEST_DATABASE_URL: %v", err)
	}
	u.Path = "/" + testDatabaseName

	t.Logf("Database ready: %s", testDatabaseName)
	return u.String()
}
