package httpapi

import (
	"net/http"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/httputil"
)

// HandleCredentialID handles GET /donors/{address}/credential. A donor
// without a credential gets the zero sentinel, not an error.
func (h *Handler) HandleCredentialID(w http.ResponseWriter, r *http.Request) {
	donor, ok := addressParam(w, r, "address")
	if !ok {
		return
	}

	id, err := h.credentials.CredentialID(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CredentialIDResponse{CredentialID: id})
}

// HandleCredentialMetadata handles GET /donors/{address}/credential/metadata.
// This lookup must exist; absence is a 404.
func (h *Handler) HandleCredentialMetadata(w http.ResponseWriter, r *http.Request) {
	donor, ok := addressParam(w, r, "address")
	if !ok {
		return
	}

	credential, err := h.credentials.GetByDonor(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credential)
}

// HandleDescriptor handles GET /credentials/{id}/descriptor.
func (h *Handler) HandleDescriptor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	descriptor, err := h.credentials.Descriptor(r.Context(), domain.CredentialID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DescriptorResponse{Descriptor: descriptor})
}

// HandleTransferCredential handles POST /credentials/{id}/transfer. The
// operation exists so clients get a definitive rejection rather than a 404;
// it never succeeds.
func (h *Handler) HandleTransferCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferCredentialRequest](w, r, h.logger)
	if !ok {
		return
	}
	from, err := domain.ParseAddress(req.From)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid from address"))
		return
	}
	to, err := domain.ParseAddress(req.To)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid to address"))
		return
	}

	err = h.credentials.Transfer(r.Context(), from, to, domain.CredentialID(id))
	// Transfer never succeeds; surface whichever rejection the service chose.
	httputil.WriteError(w, err)
}
