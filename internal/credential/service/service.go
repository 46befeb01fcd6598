package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	credentialmetrics "givepact/internal/credential/metrics"
	"givepact/internal/credential/models"
	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/events"
	"givepact/pkg/platform/sentinel"
	"givepact/pkg/requestcontext"
)

// Store persists credentials. Implementations return pkg/platform/sentinel
// errors; this service translates them into named domain conditions.
type Store interface {
	// Mint creates the donor's credential with the next sequential id. The
	// store enforces the one-credential-per-donor uniqueness.
	Mint(ctx context.Context, donor domain.Address, metadataPointer string, now time.Time) (*models.Credential, error)

	FindByDonor(ctx context.Context, donor domain.Address) (*models.Credential, error)
	FindByID(ctx context.Context, id domain.CredentialID) (*models.Credential, error)

	// Execute atomically validates and mutates one credential.
	Execute(ctx context.Context, id domain.CredentialID,
		validate func(*models.Credential) error, mutate func(*models.Credential)) (*models.Credential, error)
}

// Service is the reputation credential issuer. MintFor and UpdateFor are
// internal operations invoked by the donation ledger inside its transactional
// boundary; they are not exposed through any transport. Lookups and the
// transfer rejection are public.
type Service struct {
	store     Store
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *credentialmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *credentialmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MintFor issues a credential for a donor's first successful donation. The
// mint is an ownership change from the zero address, so it passes the same
// enforcement every ownership mutation goes through.
func (s *Service) MintFor(ctx context.Context, donor domain.Address, metadataPointer string) (*models.Credential, error) {
	if donor.IsZero() {
		return nil, domain.ErrInvalidAddress
	}
	if err := models.AuthorizeOwnershipChange(domain.ZeroAddress, donor); err != nil {
		return nil, err
	}

	credential, err := s.store.Mint(ctx, donor, metadataPointer, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, models.ErrAlreadyMinted
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint credential")
	}

	events.Emit(ctx, s.logger, s.publisher, events.Event{
		Type:         events.TypeCredentialMinted,
		Donor:        donor,
		CredentialID: credential.ID,
		Tier:         credential.Tier.String(),
	})
	if s.metrics != nil {
		s.metrics.IncrementMinted()
	}
	return credential, nil
}

// UpdateFor folds a donation amount into an existing credential, recomputing
// the tier.
func (s *Service) UpdateFor(ctx context.Context, id domain.CredentialID, amount uint64) (*models.Credential, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := requestcontext.Now(ctx)
	var before models.Tier
	credential, err := s.store.Execute(ctx, id,
		func(c *models.Credential) error {
			before = c.Tier
			return nil
		},
		func(c *models.Credential) {
			c.ApplyDonation(amount, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrNoCredential
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update credential")
	}

	events.Emit(ctx, s.logger, s.publisher, events.Event{
		Type:         events.TypeCredentialUpdated,
		Donor:        credential.Donor,
		CredentialID: credential.ID,
		Amount:       amount,
		Tier:         credential.Tier.String(),
	})
	if s.metrics != nil && credential.Tier != before {
		s.metrics.ObserveTierReached(credential.Tier.String())
	}
	return credential, nil
}

// Transfer rejects any attempt to move a credential between two real
// addresses, regardless of caller. This is the public face of the
// non-transferability rule; mint and burn paths call the same check.
func (s *Service) Transfer(ctx context.Context, from, to domain.Address, id domain.CredentialID) error {
	if err := models.AuthorizeOwnershipChange(from, to); err != nil {
		return err
	}
	// Neither endpoint pair with a zero address is a transfer; nothing else
	// is supported through this entry point.
	return dErrors.New(dErrors.CodeBadRequest, "not a transfer")
}

// CredentialID returns the donor's credential id, or the NoCredential
// sentinel when the donor holds none. Never fails on absence.
func (s *Service) CredentialID(ctx context.Context, donor domain.Address) (domain.CredentialID, error) {
	credential, err := s.store.FindByDonor(ctx, donor)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.NoCredential, nil
		}
		return domain.NoCredential, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up credential")
	}
	return credential.ID, nil
}

// GetByDonor returns the donor's full credential. Fails with ErrNoCredential
// when absent; this is the must-exist metadata lookup.
func (s *Service) GetByDonor(ctx context.Context, donor domain.Address) (*models.Credential, error) {
	credential, err := s.store.FindByDonor(ctx, donor)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrNoCredential
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return credential, nil
}

// Descriptor renders the display descriptor for a credential id.
func (s *Service) Descriptor(ctx context.Context, id domain.CredentialID) (string, error) {
	credential, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", models.ErrNoCredential
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	uri, err := models.DescriptorURI(credential)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to render descriptor")
	}
	return uri, nil
}
