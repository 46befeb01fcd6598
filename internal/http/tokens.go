package httpapi

import (
	"net/http"

	"givepact/pkg/platform/httputil"
)

// HandleSetTokenSupport handles PUT /admin/tokens/{address}.
func (h *Handler) HandleSetTokenSupport(w http.ResponseWriter, r *http.Request) {
	token, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetTokenSupportRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.tokens.SetSupport(r.Context(), token, req.Supported); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenSupportResponse{Address: token, Supported: req.Supported})
}

// HandleTokenSupport handles GET /tokens/{address}.
func (h *Handler) HandleTokenSupport(w http.ResponseWriter, r *http.Request) {
	token, ok := addressParam(w, r, "address")
	if !ok {
		return
	}

	supported, err := h.tokens.IsSupported(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenSupportResponse{Address: token, Supported: supported})
}

// HandleListTokens handles GET /tokens.
func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.tokens.ListSupported(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenListResponse{Tokens: tokens})
}
