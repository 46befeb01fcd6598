package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	charitymetrics "givepact/internal/charity/metrics"
	"givepact/internal/charity/models"
	"givepact/internal/guard"
	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/events"
	"givepact/pkg/platform/sentinel"
	"givepact/pkg/requestcontext"
)

// Store persists charity records and the (charity, donor) contribution
// relation. Implementations return pkg/platform/sentinel errors; this service
// translates them into named domain conditions.
type Store interface {
	Create(ctx context.Context, charity *models.Charity) error
	FindByAddress(ctx context.Context, address domain.Address) (*models.Charity, error)
	List(ctx context.Context) ([]*models.Charity, error)

	// Execute atomically validates and mutates one charity record. The store
	// holds its lock (mutex or FOR UPDATE) across both callbacks.
	Execute(ctx context.Context, address domain.Address,
		validate func(*models.Charity) error, mutate func(*models.Charity)) (*models.Charity, error)

	// AddContribution bumps the (charity, donor) relation and the charity
	// aggregates in one step, reporting whether the donor was new.
	AddContribution(ctx context.Context, charity, donor domain.Address, amount uint64, now time.Time) (bool, error)

	Contribution(ctx context.Context, charity, donor domain.Address) (uint64, error)
}

// Service orchestrates the charity registry: open registration, privileged
// one-way verification, and the aggregate updates driven by the donation
// ledger.
type Service struct {
	store     Store
	policy    guard.Policy
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *charitymetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *charitymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, policy guard.Policy, opts ...Option) *Service {
	s := &Service{store: store, policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a charity record owned by the caller. The caller's address
// becomes the charity identity; registering twice fails.
func (s *Service) Register(ctx context.Context, name, description, metadataPointer string) (*models.Charity, error) {
	caller := requestcontext.Caller(ctx)

	charity, err := models.NewCharity(caller, name, description, metadataPointer, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, charity); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, models.ErrAlreadyRegistered
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register charity")
	}

	events.Emit(ctx, s.logger, s.publisher, events.Event{
		Type:    events.TypeCharityRegistered,
		Charity: charity.Address,
	})
	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
	return charity, nil
}

// Verify marks a charity verified. Privileged; the transition is one-way.
func (s *Service) Verify(ctx context.Context, charityID domain.Address) (*models.Charity, error) {
	if err := s.policy.Authorize(ctx, requestcontext.Caller(ctx)); err != nil {
		return nil, err
	}
	if charityID.IsZero() {
		return nil, domain.ErrInvalidAddress
	}

	now := requestcontext.Now(ctx)
	charity, err := s.store.Execute(ctx, charityID,
		func(c *models.Charity) error {
			return c.CanVerify()
		},
		func(c *models.Charity) {
			c.ApplyVerification(now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrNotRegistered
		}
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, models.ErrAlreadyVerified
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify charity")
	}

	events.Emit(ctx, s.logger, s.publisher, events.Event{
		Type:    events.TypeCharityVerified,
		Charity: charity.Address,
	})
	if s.metrics != nil {
		s.metrics.IncrementVerified()
	}
	return charity, nil
}

// RecordContribution folds a successful donation into the charity aggregates.
// Invoked only by the donation ledger inside its transactional boundary; it is
// not exposed through any transport.
func (s *Service) RecordContribution(ctx context.Context, charityID, donor domain.Address, amount uint64) error {
	_, err := s.store.AddContribution(ctx, charityID, donor, amount, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrNotRegistered
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record contribution")
	}
	return nil
}

// Get returns the full charity record.
func (s *Service) Get(ctx context.Context, charityID domain.Address) (*models.Charity, error) {
	charity, err := s.store.FindByAddress(ctx, charityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrNotRegistered
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load charity")
	}
	return charity, nil
}

// List returns all registered charities.
func (s *Service) List(ctx context.Context) ([]*models.Charity, error) {
	charities, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list charities")
	}
	return charities, nil
}

// Contribution returns the donor's cumulative contribution to a charity.
// Absent pairs read as zero; this never fails on absence.
func (s *Service) Contribution(ctx context.Context, charityID, donor domain.Address) (uint64, error) {
	amount, err := s.store.Contribution(ctx, charityID, donor)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contribution")
	}
	return amount, nil
}
