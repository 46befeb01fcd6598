package httpapi

import (
	"net/http"

	"givepact/pkg/platform/httputil"
)

// HandleHealth handles GET /healthz, probing each registered dependency.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK
	if len(h.health) > 0 {
		resp.Checks = make(map[string]string, len(h.health))
	}
	for _, check := range h.health {
		if err := check.Check(ctx); err != nil {
			resp.Checks[check.Name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	httputil.WriteJSON(w, status, resp)
}
