package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/database"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/server"
	"github.com/information-sharing-networks/ledger-demo/internal/services"
	"github.com/information-sharing-networks/ledger-demo/internal/version"
)

//	@title			ledger-server
//	@description	ledger-server is a personal finance ledger API. Each client works in its own session
//	@description	holding categories and transactions that no other session can see.
//	@description
//	@description	## Sessions
//	@description	`GET /sessions` returns a new session token as a bare integer.
//	@description	Send the token in the `WWW_Authenticate` header on every other ledger request
//	@description	(the header name is configurable with SESSION_HEADER). Requests without a valid token get a `401`.
//	@description
//	@description	## Status codes
//	@description	- `404` the id does not name a record in the session (also used for PATCH with an unknown category)
//	@description	- `405` the request body failed validation (missing or invalid fields, unknown categoryID)
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 64KB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@license.name	MIT

//	@servers.url			http://localhost:8080/api/v1
//	@servers.description	Development server

//	@accept		json
//	@produce	json

//	@tag.name			Sessions
//	@tag.description	Session creation

//	@tag.name			Categories
//	@tag.description	Manage the categories of a session

//	@tag.name			Transactions
//	@tag.description	Manage, filter and categorise the transactions of a session

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version)

func main() {
	cmd := &cobra.Command{
		Use:   "ledger-server",
		Short: "Personal finance ledger API server",
		Long:  `ledger-server serves the session scoped categories and transactions API`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Long:  `Apply the embedded schema migrations to DATABASE_URL (STORE_BACKEND=postgres only)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	})

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv loads .env from the working directory when present. Variables already set win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("API_BASE_PATH", cfg.APIBasePath),
		slog.String("SESSION_HEADER", cfg.SessionHeader),
		slog.Duration("SESSION_TTL", cfg.SessionTTL),
		slog.String("STORE_BACKEND", cfg.StoreBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := services.NewServices(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize storage backend", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	server := server.NewServer(svc.Backend, cfg, appLogger)
	defer server.BackendShutdown()

	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

func migrate(ctx context.Context) error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.StoreBackend != config.BackendPostgres {
		return fmt.Errorf("migrate requires STORE_BACKEND=%s", config.BackendPostgres)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	v, err := database.MigrationVersion(ctx, pool)
	if err != nil {
		return err
	}
	appLogger.Info("migrations applied", slog.Int64("version", v))
	return nil
}
