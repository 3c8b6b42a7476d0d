package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
)

// RequestSizeLimit caps request bodies at maxBytes.
//
// A declared Content-Length over the limit is answered with 413 straight away. Any other body is
// wrapped in a MaxBytesReader; handlers turn the resulting *http.MaxBytesError into a 413 themselves.
//
// Every response carries X-Max-Request-Size so clients can discover the limit.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	limit := strconv.FormatInt(maxBytes, 10)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", limit)

			if r.ContentLength > maxBytes {
				logger.ContextWithLogAttrs(r.Context(), slog.Int64("content_length", r.ContentLength))
				api.RespondWithError(w, r, api.NewRequestTooLargeError(
					fmt.Sprintf("Request body is %d bytes, the limit is %d bytes", r.ContentLength, maxBytes)))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// apiSecurityHeaders are set on every response. The API only serves JSON, so nothing may be framed,
// sniffed or cached.
var apiSecurityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":         "no-referrer",
	"Cache-Control":           "no-store",
}

// SecurityHeaders sets apiSecurityHeaders, plus HSTS in prod and staging (which are served over TLS).
func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	hsts := environment == "prod" || environment == "staging"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range apiSecurityHeaders {
				h.Set(name, value)
			}
			if hsts {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies one token bucket to all clients: requestsPerSecond sustained, burst at once.
// A limit of 0 or less disables it.
//
// Rejected requests get 429 with Retry-After set to the wait for the next token (at least one second).
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst))
	retryAfter := strconv.Itoa(max(1, int(1/float64(requestsPerSecond))))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			logger.ContextWithLogAttrs(r.Context(),
				slog.String("component", "RateLimit"),
				slog.String("remote_addr", r.RemoteAddr),
			)

			w.Header().Set("Retry-After", retryAfter)
			api.RespondWithError(w, r, api.NewRateLimitError("Too many requests. Please try again later."))
		})
	}
}
