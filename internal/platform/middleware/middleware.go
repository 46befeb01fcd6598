// Package middleware carries the request-scoped plumbing every handler relies
// on: correlation id, pinned request time, caller identity, and the request
// log line.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/httputil"
	"givepact/pkg/requestcontext"
)

// CallerHeader names the header that carries the calling identity. The
// gateway in front of this service authenticates the caller and stamps the
// header; the service itself never sees credentials.
const CallerHeader = "X-Caller-Address"

// RequestID assigns a correlation id to every request and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestTime pins one timestamp for the whole request so every record
// written by a single operation carries the same time.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Caller extracts the calling identity from CallerHeader. Requests without
// the header proceed anonymously; services reject operations that need an
// identity. A malformed address fails fast here.
func Caller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(CallerHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		caller, err := domain.ParseAddress(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid caller address"))
			return
		}

		ctx := requestcontext.WithCaller(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger emits one structured line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(r.Context()),
			)
		})
	}
}
