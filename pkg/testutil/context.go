package testutil

import (
	"net/http"
	"time"

	"givepact/pkg/domain"
	"givepact/pkg/requestcontext"
)

// WithCaller adds a calling identity to the request context. This simulates
// what the caller middleware would do for identified requests.
func WithCaller(req *http.Request, caller domain.Address) *http.Request {
	ctx := requestcontext.WithCaller(req.Context(), caller)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock, keeping timestamps in
// handler tests deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
