// Package tokenregistry maintains the whitelist of value-transfer tokens
// accepted for donations. Toggling is privileged; lookups are open and pure.
package tokenregistry

import (
	"context"
	"log/slog"

	"givepact/internal/guard"
	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
	"givepact/pkg/platform/events"
	"givepact/pkg/requestcontext"
)

// Store persists token acceptance flags.
type Store interface {
	// Set records the acceptance flag for a token.
	Set(ctx context.Context, token domain.Address, supported bool) error

	// IsSupported reports whether a token is currently accepted. Unknown
	// tokens are simply not supported; this never fails on absence.
	IsSupported(ctx context.Context, token domain.Address) (bool, error)

	// ListSupported returns all currently accepted tokens.
	ListSupported(ctx context.Context) ([]domain.Address, error)
}

// Service guards mutation behind the access policy and emits status-changed
// events.
type Service struct {
	store     Store
	policy    guard.Policy
	logger    *slog.Logger
	publisher events.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func New(store Store, policy guard.Policy, opts ...Option) *Service {
	s := &Service{store: store, policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSupport sets or clears acceptance of a token. Privileged.
func (s *Service) SetSupport(ctx context.Context, token domain.Address, supported bool) error {
	if err := s.policy.Authorize(ctx, requestcontext.Caller(ctx)); err != nil {
		return err
	}
	if token.IsZero() {
		return domain.ErrInvalidAddress
	}

	if err := s.store.Set(ctx, token, supported); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update token support")
	}

	events.Emit(ctx, s.logger, s.publisher, events.Event{
		Type:      events.TypeTokenSupportChanged,
		Token:     token,
		Supported: supported,
	})
	return nil
}

// IsSupported is a pure lookup with no side effects.
func (s *Service) IsSupported(ctx context.Context, token domain.Address) (bool, error) {
	if token.IsZero() {
		return false, nil
	}
	supported, err := s.store.IsSupported(ctx, token)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up token support")
	}
	return supported, nil
}

// ListSupported returns the accepted tokens.
func (s *Service) ListSupported(ctx context.Context) ([]domain.Address, error) {
	tokens, err := s.store.ListSupported(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list supported tokens")
	}
	return tokens, nil
}
