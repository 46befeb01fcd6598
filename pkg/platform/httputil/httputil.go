// Package httputil holds the JSON helpers shared by all HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "givepact/pkg/domain-errors"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into its HTTP shape. The machine
// readable code is always present; the human description is omitted for
// internal failures so infrastructure details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}

	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, dErrors.HTTPStatus(code), resp)
}

// DecodeAndPrepare decodes a JSON request body into T, writing a bad-request
// response and logging on failure. The bool result reports whether the
// handler should continue.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "failed to decode request body",
				"path", r.URL.Path, "error", err)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}
