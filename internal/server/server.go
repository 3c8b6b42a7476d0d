package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/server/handlers"
	"github.com/information-sharing-networks/ledger-demo/internal/server/middleware"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
	"github.com/information-sharing-networks/ledger-demo/internal/version"
)

type Server struct {
	backend store.Backend
	config  *config.ServerEnvironment
	logger  *slog.Logger
	router  *chi.Mux
}

func NewServer(
	backend store.Backend,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	server := &Server{
		backend: backend,
		config:  cfg,
		logger:  logger,
		router:  chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

// Handler returns the router, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(chimiddleware.Timeout(s.config.RequestTimeout))
}

func (s *Server) registerRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, r, ledger.NewNotFoundError("no such route"))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, r, api.NewMethodNotAllowedError(r.Method+" is not supported on this route"))
	})

	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/health/ready", handlers.HandleReadiness(s.backend))
	s.router.Get("/version", handlers.HandleVersion(version.Get()))

	sizeLimit := middleware.RequestSizeLimit(s.config.MaxRequestBodyBytes)

	ledgerRoutes := func(r chi.Router) {
		r.With(sizeLimit).Get("/sessions", handlers.HandleCreateSession(s.backend))

		// the session check runs first: a bad token is a 401 whatever the body size
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(s.backend, s.config.SessionHeader))
			r.Use(sizeLimit)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", handlers.HandleListCategories)
				r.Post("/", handlers.HandleCreateCategory)
				r.Get("/{id}", handlers.HandleGetCategory)
				r.Put("/{id}", handlers.HandleUpdateCategory)
				r.Delete("/{id}", handlers.HandleDeleteCategory)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", handlers.HandleListTransactions)
				r.Post("/", handlers.HandleCreateTransaction)
				r.Get("/{id}", handlers.HandleGetTransaction)
				r.Put("/{id}", handlers.HandleUpdateTransaction)
				r.Delete("/{id}", handlers.HandleDeleteTransaction)
				r.Patch("/{id}/category", handlers.HandlePatchTransactionCategory)
			})
		})
	}

	// chi cannot mount on an empty pattern
	if s.config.APIBasePath == "" {
		s.router.Group(ledgerRoutes)
	} else {
		s.router.Route(s.config.APIBasePath, ledgerRoutes)
	}
}

// Start serves HTTP and runs the session sweeper until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr),
			slog.String("api_base_path", s.config.APIBasePath),
			slog.String("store_backend", s.config.StoreBackend))

		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return store.RunSweeper(gctx, s.backend, s.config.SessionTTL, s.config.SessionSweepInterval, s.logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error",
				slog.String("error", err.Error()))
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}

		s.logger.Info("HTTP server shutdown complete")
		return nil
	})

	return g.Wait()
}

// BackendShutdown releases the storage backend (closes the database pool for postgres).
func (s *Server) BackendShutdown() {
	if s.backend != nil {
		s.backend.Close()
		s.logger.Info("storage backend closed")
	}
}
