// Package service implements the donation pipeline: the only flow that moves
// value, appends ledger records, updates charity aggregates, and mints or
// grows reputation credentials.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	charitymodels "givepact/internal/charity/models"
	credentialmodels "givepact/internal/credential/models"
	donationmetrics "givepact/internal/donation/metrics"
	"givepact/internal/donation/models"
	"givepact/internal/guard"
	"givepact/internal/transfer"
	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/events"
	"givepact/pkg/platform/sentinel"
	"givepact/pkg/requestcontext"
)

// Store persists the append-only ledger.
type Store interface {
	Append(ctx context.Context, record models.DonationRecord) (domain.DonationID, error)
	FindByID(ctx context.Context, id domain.DonationID) (*models.DonationRecord, error)
	ListIDsByCharity(ctx context.Context, charity domain.Address) ([]domain.DonationID, error)
	ListIDsByDonor(ctx context.Context, donor domain.Address) ([]domain.DonationID, error)
}

// TokenRegistry answers whether a token is accepted for donations.
type TokenRegistry interface {
	IsSupported(ctx context.Context, token domain.Address) (bool, error)
}

// CharityRegistry exposes the charity operations the pipeline needs: the
// pre-transfer existence and verification check, and the post-transfer
// aggregate update.
type CharityRegistry interface {
	Get(ctx context.Context, charityID domain.Address) (*charitymodels.Charity, error)
	RecordContribution(ctx context.Context, charityID, donor domain.Address, amount uint64) error
}

// CredentialIssuer mints a donor's first credential and folds later donations
// into it.
type CredentialIssuer interface {
	CredentialID(ctx context.Context, donor domain.Address) (domain.CredentialID, error)
	MintFor(ctx context.Context, donor domain.Address, metadataPointer string) (*credentialmodels.Credential, error)
	UpdateFor(ctx context.Context, id domain.CredentialID, amount uint64) (*credentialmodels.Credential, error)
}

// TxRunner brackets the post-transfer mutations in one atomic unit. The
// Postgres runner opens a database transaction and threads it through context;
// the default pass-through serves stores that lock internally.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service orchestrates donations and the emergency treasury escape hatch.
// Every flow that invokes the external mover runs under the reentrancy guard.
type Service struct {
	store       Store
	tokens      TokenRegistry
	charities   CharityRegistry
	credentials CredentialIssuer
	mover       transfer.Mover
	guard       *guard.ReentrancyGuard
	policy      guard.Policy

	tx        TxRunner
	treasury  domain.Address
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *donationmetrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *donationmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTxRunner installs the transactional bracket for the post-transfer
// mutations.
func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

// WithTreasury sets the account emergency withdrawals draw from.
func WithTreasury(treasury domain.Address) Option {
	return func(s *Service) { s.treasury = treasury }
}

func New(store Store, tokens TokenRegistry, charities CharityRegistry, credentials CredentialIssuer,
	mover transfer.Mover, g *guard.ReentrancyGuard, policy guard.Policy, opts ...Option) *Service {

	s := &Service{
		store:       store,
		tokens:      tokens,
		charities:   charities,
		credentials: credentials,
		mover:       mover,
		guard:       g,
		policy:      policy,
		tx:          passthroughTxRunner{},
		tracer:      otel.Tracer("givepact/internal/donation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Donate runs the full pipeline for the calling donor. Validation happens
// before any state changes: token support, then amount, then charity existence
// and verification. Only then does the mover pull funds, after which the
// ledger append, charity aggregates, and credential mint-or-update commit as
// one unit. A failure after the transfer triggers a best-effort refund.
func (s *Service) Donate(ctx context.Context, charityID, tokenID domain.Address, amount uint64, message string) (*models.DonationRecord, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return nil, domain.ErrInvalidAddress
	}

	ctx, span := s.tracer.Start(ctx, "donation.Donate", trace.WithAttributes(
		attribute.String("donation.charity", charityID.String()),
		attribute.String("donation.token", tokenID.String()),
		attribute.Int64("donation.amount", int64(amount)),
	))
	defer span.End()
	started := time.Now()

	var record *models.DonationRecord
	err := s.guard.Do(ctx, caller, func(ctx context.Context) error {
		var err error
		record, err = s.donate(ctx, caller, charityID, tokenID, amount, message)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveDonation(tokenID.String(), amount, time.Since(started))
	}
	return record, nil
}

func (s *Service) donate(ctx context.Context, caller, charityID, tokenID domain.Address, amount uint64, message string) (*models.DonationRecord, error) {
	supported, err := s.tokens.IsSupported(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !supported {
		return nil, models.ErrTokenNotSupported
	}
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}

	charity, err := s.charities.Get(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if !charity.Verified {
		return nil, charitymodels.ErrNotVerified
	}

	if err := s.mover.TransferFrom(ctx, tokenID, caller, charityID, amount); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}

	// Funds are now held by the charity. Everything below either commits as
	// one unit or is unwound by the refund.
	var (
		record models.DonationRecord
		tier   credentialmodels.Tier
	)
	txErr := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		record = models.DonationRecord{
			Donor:     caller,
			Charity:   charityID,
			Amount:    amount,
			Token:     tokenID,
			Message:   message,
			Timestamp: requestcontext.Now(ctx),
		}
		id, err := s.store.Append(ctx, record)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append donation")
		}
		record.ID = id

		if err := s.charities.RecordContribution(ctx, charityID, caller, amount); err != nil {
			return err
		}

		credentialID, err := s.credentials.CredentialID(ctx, caller)
		if err != nil {
			return err
		}
		if credentialID.IsNone() {
			credential, err := s.credentials.MintFor(ctx, caller, "")
			if err != nil {
				return err
			}
			credential, err = s.credentials.UpdateFor(ctx, credential.ID, amount)
			if err != nil {
				return err
			}
			tier = credential.Tier
			return nil
		}
		credential, err := s.credentials.UpdateFor(ctx, credentialID, amount)
		if err != nil {
			return err
		}
		tier = credential.Tier
		return nil
	})
	if txErr != nil {
		s.refund(ctx, tokenID, charityID, caller, amount)
		return nil, txErr
	}

	events.Emit(ctx, s.logger, s.publisher, events.Event{
		Type:       events.TypeDonationMade,
		Donor:      caller,
		Charity:    charityID,
		Token:      tokenID,
		DonationID: record.ID,
		Amount:     amount,
		Tier:       tier.String(),
	})
	return &record, nil
}

// refund returns already-pulled funds when the post-transfer mutations fail.
// Best effort: a refund failure is logged for manual reconciliation, never
// surfaced to the donor on top of the original error.
func (s *Service) refund(ctx context.Context, tokenID, from, to domain.Address, amount uint64) {
	if err := s.mover.TransferFrom(ctx, tokenID, from, to, amount); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "donation refund failed",
			"token", tokenID.String(),
			"donor", to.String(),
			"charity", from.String(),
			"amount", amount,
			"error", err,
		)
	}
}

// EmergencyWithdraw moves funds from the treasury to a recipient. Privileged;
// it bypasses the donation pipeline entirely and touches no ledger state.
func (s *Service) EmergencyWithdraw(ctx context.Context, tokenID, recipient domain.Address, amount uint64) error {
	caller := requestcontext.Caller(ctx)
	if err := s.policy.Authorize(ctx, caller); err != nil {
		return err
	}
	if recipient.IsZero() {
		return domain.ErrInvalidAddress
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}

	return s.guard.Do(ctx, caller, func(ctx context.Context) error {
		if err := s.mover.TransferFrom(ctx, tokenID, s.treasury, recipient, amount); err != nil {
			return fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
		}

		events.Emit(ctx, s.logger, s.publisher, events.Event{
			Type:      events.TypeEmergencyWithdrawal,
			Token:     tokenID,
			Recipient: recipient,
			Amount:    amount,
		})
		if s.metrics != nil {
			s.metrics.IncrementWithdrawals()
		}
		return nil
	})
}

// Get returns one ledger record by id.
func (s *Service) Get(ctx context.Context, id domain.DonationID) (*models.DonationRecord, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrDonationNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation")
	}
	return record, nil
}

// DonationsByCharity returns the charity's donation ids in append order.
// Unknown charities read as empty.
func (s *Service) DonationsByCharity(ctx context.Context, charity domain.Address) ([]domain.DonationID, error) {
	ids, err := s.store.ListIDsByCharity(ctx, charity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return ids, nil
}

// DonationsByDonor returns the donor's donation ids in append order. Unknown
// donors read as empty.
func (s *Service) DonationsByDonor(ctx context.Context, donor domain.Address) ([]domain.DonationID, error) {
	ids, err := s.store.ListIDsByDonor(ctx, donor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return ids, nil
}
