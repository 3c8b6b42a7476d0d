package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/database"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
	"github.com/information-sharing-networks/ledger-demo/internal/store/memory"
	"github.com/information-sharing-networks/ledger-demo/internal/store/postgres"
)

// Services aggregates the dependencies the server is built from.
type Services struct {
	Backend store.Backend
}

// NewServices creates the storage backend named by cfg.StoreBackend.
// This is the single entry point for initializing backends.
func NewServices(ctx context.Context, cfg *config.ServerEnvironment, logger *slog.Logger) (*Services, error) {
	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Services{Backend: backend}, nil
}

func newBackend(ctx context.Context, cfg *config.ServerEnvironment, logger *slog.Logger) (store.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Info("using in-memory store", slog.Duration("session_ttl", cfg.SessionTTL))
		return memory.New(cfg.SessionTTL), nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to PostgreSQL")

		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		if v, err := database.MigrationVersion(ctx, pool); err == nil {
			logger.Info("database schema up to date", slog.Int64("version", v))
		}

		return postgres.New(pool, cfg.SessionTTL), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
