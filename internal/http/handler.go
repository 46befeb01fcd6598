// Package httpapi exposes the platform over HTTP. Handlers decode, delegate
// to services, and translate domain errors; they hold no business rules.
package httpapi

import (
	"context"
	"log/slog"

	charitymodels "givepact/internal/charity/models"
	credentialmodels "givepact/internal/credential/models"
	donationmodels "givepact/internal/donation/models"
	"givepact/pkg/domain"
)

// CharityService is the slice of the charity registry the transport needs.
type CharityService interface {
	Register(ctx context.Context, name, description, metadataPointer string) (*charitymodels.Charity, error)
	Verify(ctx context.Context, charityID domain.Address) (*charitymodels.Charity, error)
	Get(ctx context.Context, charityID domain.Address) (*charitymodels.Charity, error)
	List(ctx context.Context) ([]*charitymodels.Charity, error)
	Contribution(ctx context.Context, charityID, donor domain.Address) (uint64, error)
}

// TokenService toggles and reads the token whitelist.
type TokenService interface {
	SetSupport(ctx context.Context, token domain.Address, supported bool) error
	IsSupported(ctx context.Context, token domain.Address) (bool, error)
	ListSupported(ctx context.Context) ([]domain.Address, error)
}

// DonationService runs the donation pipeline and serves ledger reads.
type DonationService interface {
	Donate(ctx context.Context, charityID, tokenID domain.Address, amount uint64, message string) (*donationmodels.DonationRecord, error)
	EmergencyWithdraw(ctx context.Context, tokenID, recipient domain.Address, amount uint64) error
	Get(ctx context.Context, id domain.DonationID) (*donationmodels.DonationRecord, error)
	DonationsByCharity(ctx context.Context, charity domain.Address) ([]domain.DonationID, error)
	DonationsByDonor(ctx context.Context, donor domain.Address) ([]domain.DonationID, error)
}

// CredentialService serves credential reads and the transfer rejection.
type CredentialService interface {
	CredentialID(ctx context.Context, donor domain.Address) (domain.CredentialID, error)
	GetByDonor(ctx context.Context, donor domain.Address) (*credentialmodels.Credential, error)
	Descriptor(ctx context.Context, id domain.CredentialID) (string, error)
	Transfer(ctx context.Context, from, to domain.Address, id domain.CredentialID) error
}

// HealthCheck probes one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler wires all endpoints to their services.
type Handler struct {
	charities   CharityService
	tokens      TokenService
	donations   DonationService
	credentials CredentialService
	logger      *slog.Logger
	health      []HealthCheck
}

type Option func(*Handler)

// WithHealthChecks registers dependency probes for the health endpoint.
func WithHealthChecks(checks ...HealthCheck) Option {
	return func(h *Handler) { h.health = append(h.health, checks...) }
}

func New(charities CharityService, tokens TokenService, donations DonationService,
	credentials CredentialService, logger *slog.Logger, opts ...Option) *Handler {

	h := &Handler{
		charities:   charities,
		tokens:      tokens,
		donations:   donations,
		credentials: credentials,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
