package handlers

import (
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

// HandleCreateSession godoc
//
//	@Summary		Create a session
//	@Description	Issues a new session token with an empty set of categories and transactions.
//	@Description
//	@Description	The body is the token as a bare JSON integer. Send it in the session header
//	@Description	(`WWW_Authenticate` by default) on every other API request.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{integer}	int	"session token"
//	@Failure		500	{object}	api.ErrorResponse
//	@Router			/sessions [get]
func HandleCreateSession(backend store.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := backend.CreateSession(r.Context())
		if err != nil {
			api.RespondWithError(w, r, err)
			return
		}

		logger.ContextRequestLogger(r.Context()).Info("session created",
			slog.String("session_id", info.ID.String()))

		// written without a trailing newline so clients can parse the body as a plain integer
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(info.Token.String()))
	}
}
