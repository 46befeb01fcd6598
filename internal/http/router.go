package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"givepact/internal/platform/metrics"
	"givepact/internal/platform/middleware"
	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/httputil"
)

// NewRouter assembles the full route table with the platform middleware
// chain.
func NewRouter(h *Handler, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Caller)
	r.Use(middleware.RequestLogger(logger))
	if m != nil {
		r.Use(m.Instrument)
	}

	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/charities", func(r chi.Router) {
		r.Post("/", h.HandleRegisterCharity)
		r.Get("/", h.HandleListCharities)
		r.Get("/{address}", h.HandleGetCharity)
		r.Get("/{address}/donations", h.HandleCharityDonations)
		r.Get("/{address}/contributions/{donor}", h.HandleContribution)
	})

	r.Route("/donations", func(r chi.Router) {
		r.Post("/", h.HandleDonate)
		r.Get("/{id}", h.HandleGetDonation)
	})

	r.Route("/donors", func(r chi.Router) {
		r.Get("/{address}/donations", h.HandleDonorDonations)
		r.Get("/{address}/credential", h.HandleCredentialID)
		r.Get("/{address}/credential/metadata", h.HandleCredentialMetadata)
	})

	r.Route("/tokens", func(r chi.Router) {
		r.Get("/", h.HandleListTokens)
		r.Get("/{address}", h.HandleTokenSupport)
	})

	r.Route("/credentials", func(r chi.Router) {
		r.Get("/{id}/descriptor", h.HandleDescriptor)
		r.Post("/{id}/transfer", h.HandleTransferCredential)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/charities/{address}/verify", h.HandleVerifyCharity)
		r.Put("/tokens/{address}", h.HandleSetTokenSupport)
		r.Post("/withdraw", h.HandleWithdraw)
	})

	return r
}

// addressParam parses a URL address parameter, writing a bad-request response
// on failure.
func addressParam(w http.ResponseWriter, r *http.Request, name string) (domain.Address, bool) {
	address, err := domain.ParseAddress(chi.URLParam(r, name))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid "+name))
		return domain.ZeroAddress, false
	}
	return address, true
}

// idParam parses a numeric URL parameter.
func idParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+name))
		return 0, false
	}
	return id, true
}
