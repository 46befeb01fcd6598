package httpapi

import (
	"net/http"

	"givepact/pkg/platform/httputil"
	"givepact/pkg/requestcontext"
)

// HandleRegisterCharity handles POST /charities. The caller's identity
// becomes the charity address.
func (h *Handler) HandleRegisterCharity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[RegisterCharityRequest](w, r, h.logger)
	if !ok {
		return
	}

	charity, err := h.charities.Register(ctx, req.Name, req.Description, req.MetadataPointer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "charity registered",
		"request_id", requestcontext.RequestID(ctx),
		"charity", charity.Address.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, charity)
}

// HandleListCharities handles GET /charities.
func (h *Handler) HandleListCharities(w http.ResponseWriter, r *http.Request) {
	charities, err := h.charities.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, charities)
}

// HandleGetCharity handles GET /charities/{address}.
func (h *Handler) HandleGetCharity(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}

	charity, err := h.charities.Get(r.Context(), address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, charity)
}

// HandleContribution handles GET /charities/{address}/contributions/{donor}.
// Absent pairs read as zero.
func (h *Handler) HandleContribution(w http.ResponseWriter, r *http.Request) {
	charity, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	donor, ok := addressParam(w, r, "donor")
	if !ok {
		return
	}

	amount, err := h.charities.Contribution(r.Context(), charity, donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ContributionResponse{
		Charity: charity,
		Donor:   donor,
		Amount:  amount,
	})
}

// HandleVerifyCharity handles POST /admin/charities/{address}/verify.
func (h *Handler) HandleVerifyCharity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}

	charity, err := h.charities.Verify(ctx, address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "charity verified",
		"request_id", requestcontext.RequestID(ctx),
		"charity", charity.Address.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, charity)
}
