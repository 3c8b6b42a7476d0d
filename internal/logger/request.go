package logger

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextRequestLogger returns the request logger stored by RequestLogging, or the default logger.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs adds attributes to the request completion log line.
// It is a no-op outside a request handled by RequestLogging.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	holder, ok := ctx.Value(logAttrsKey).(*logAttrs)
	if !ok {
		return
	}
	holder.mu.Lock()
	holder.attrs = append(holder.attrs, attrs...)
	holder.mu.Unlock()
}

// ContextWithRequestLogger returns a context carrying l as the request logger.
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, l)
}

// RequestLogging logs one line per request once the response is written.
// 5xx responses are logged at error level, 4xx at warn and everything else at info.
//
// It must run after chi's RequestID middleware so the request id is available.
func RequestLogging(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := base.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			holder := &logAttrs{}

			ctx := ContextWithRequestLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, logAttrsKey, holder)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			holder.mu.Lock()
			attrs := append([]slog.Attr{
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
			}, holder.attrs...)
			holder.mu.Unlock()

			reqLogger.LogAttrs(ctx, level, "request completed", attrs...)
		})
	}
}
