package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/httputil"
	"givepact/pkg/requestcontext"
)

// HandleDonate handles POST /donations.
func (h *Handler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[DonateRequest](w, r, h.logger)
	if !ok {
		return
	}
	charity, err := domain.ParseAddress(req.Charity)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid charity"))
		return
	}
	token, err := domain.ParseAddress(req.Token)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid token"))
		return
	}

	record, err := h.donations.Donate(ctx, charity, token, req.Amount, req.Message)
	if err != nil {
		h.logger.WarnContext(ctx, "donation rejected",
			"request_id", requestcontext.RequestID(ctx),
			"charity", charity.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "donation accepted",
		"request_id", requestcontext.RequestID(ctx),
		"donation_id", uint64(record.ID),
		"charity", charity.String(),
		"amount", record.Amount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleGetDonation handles GET /donations/{id}.
func (h *Handler) HandleGetDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	record, err := h.donations.Get(r.Context(), domain.DonationID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// maxListLimit caps how many donation ids one list request returns.
const maxListLimit = 1000

// listLimit parses the optional limit query parameter, writing a bad-request
// response when it is not a positive integer.
func listLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return maxListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid limit"))
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}

// HandleCharityDonations handles GET /charities/{address}/donations.
func (h *Handler) HandleCharityDonations(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	limit, ok := listLimit(w, r)
	if !ok {
		return
	}

	ids, err := h.donations.DonationsByCharity(r.Context(), address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	httputil.WriteJSON(w, http.StatusOK, DonationIDsResponse{DonationIDs: ids})
}

// HandleDonorDonations handles GET /donors/{address}/donations.
func (h *Handler) HandleDonorDonations(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	limit, ok := listLimit(w, r)
	if !ok {
		return
	}

	ids, err := h.donations.DonationsByDonor(r.Context(), address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	httputil.WriteJSON(w, http.StatusOK, DonationIDsResponse{DonationIDs: ids})
}

// HandleWithdraw handles POST /admin/withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[WithdrawRequest](w, r, h.logger)
	if !ok {
		return
	}
	token, err := domain.ParseAddress(req.Token)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid token"))
		return
	}
	recipient, err := domain.ParseAddress(req.Recipient)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid recipient"))
		return
	}

	if err := h.donations.EmergencyWithdraw(ctx, token, recipient, req.Amount); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "emergency withdrawal executed",
		"request_id", requestcontext.RequestID(ctx),
		"token", token.String(),
		"recipient", recipient.String(),
		"amount", req.Amount,
	)
	w.WriteHeader(http.StatusNoContent)
}
