package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

type sessionContextKey struct{}

// RequireSession resolves the token sent in header and stores the session in the request context.
// Requests without a live session get a 401 before any route logic runs.
func RequireSession(backend store.Backend, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ledger.ParseSessionToken(r.Header.Get(header))
			if err != nil {
				api.RespondWithError(w, r, err)
				return
			}

			session, err := backend.Session(r.Context(), token)
			if err != nil {
				api.RespondWithError(w, r, err)
				return
			}

			info := session.Info()
			ctx := logger.ContextWithRequestLogger(r.Context(),
				logger.ContextRequestLogger(r.Context()).With(slog.String("session_id", info.ID.String())),
			)
			logger.ContextWithLogAttrs(ctx, slog.String("session_id", info.ID.String()))

			ctx = context.WithValue(ctx, sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by RequireSession.
func SessionFromContext(ctx context.Context) (store.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(store.Session)
	return s, ok
}
