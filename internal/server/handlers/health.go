package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

// readinessTimeout bounds the backend ping so a hung database fails the probe instead of stalling it.
const readinessTimeout = 3 * time.Second

type HealthResponse struct {
	Status string `json:"status" example:"ready"`
	Reason string `json:"reason,omitempty" example:"storage unavailable"`
}

// HandleHealth godoc
//
//	@Summary		Liveness check
//	@Description	Answers as long as the process can serve HTTP. Storage is not checked.
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health/live [get]
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	api.RespondWithJSONPayload(w, http.StatusOK, HealthResponse{Status: "live"})
}

// HandleReadiness godoc
//
//	@Summary		Readiness check
//	@Description	Answers 200 when the storage backend responds, 503 otherwise.
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health/ready [get]
func HandleReadiness(backend store.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := backend.Ping(ctx); err != nil {
			logger.ContextRequestLogger(r.Context()).Warn("storage backend not ready",
				slog.String("error", err.Error()))
			api.RespondWithJSONPayload(w, http.StatusServiceUnavailable,
				HealthResponse{Status: "not ready", Reason: "storage unavailable"})
			return
		}

		api.RespondWithJSONPayload(w, http.StatusOK, HealthResponse{Status: "ready"})
	}
}
