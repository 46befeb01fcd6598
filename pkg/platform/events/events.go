// Package events defines the domain events emitted by the platform and the
// ports for publishing and storing them. Emission is observational: the
// donation pipeline commits first and publishes after, so a slow or down
// broker can never fail a donation.
package events

import (
	"context"
	"log/slog"
	"time"

	"givepact/pkg/domain"
	"givepact/pkg/requestcontext"
)

// Type names a domain event.
type Type string

const (
	TypeCharityRegistered   Type = "charity_registered"
	TypeCharityVerified     Type = "charity_verified"
	TypeTokenSupportChanged Type = "token_support_changed"
	TypeDonationMade        Type = "donation_made"
	TypeCredentialMinted    Type = "credential_minted"
	TypeCredentialUpdated   Type = "credential_updated"
	TypeEmergencyWithdrawal Type = "emergency_withdrawal"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Fields that do not
// apply to a given type stay at their zero values and are omitted on the wire.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Donor     domain.Address `json:"donor,omitempty"`
	Charity   domain.Address `json:"charity,omitempty"`
	Token     domain.Address `json:"token,omitempty"`
	Recipient domain.Address `json:"recipient,omitempty"`

	DonationID   domain.DonationID   `json:"donation_id,omitempty"`
	CredentialID domain.CredentialID `json:"credential_id,omitempty"`
	Amount       uint64              `json:"amount,omitempty"`
	Tier         string              `json:"tier,omitempty"`
	Supported    bool                `json:"supported,omitempty"`

	// RequestID correlates the event with the HTTP request that caused it.
	RequestID string `json:"request_id,omitempty"`
}

// Publisher emits domain events to whatever sink is configured (Kafka, an
// in-process worker channel, or a test recorder).
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists events for inspection. Kafka deployments use the broker as
// the source of truth; the in-memory store backs dev mode and tests.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emit is a shared helper for services: it logs the event through the
// structured logger and forwards it to the publisher when one is configured.
// Publish failures are logged, never propagated.
func Emit(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	if logger != nil {
		logger.InfoContext(ctx, string(event.Type),
			"event", string(event.Type),
			"log_type", "domain_event",
			"donor", event.Donor.String(),
			"charity", event.Charity.String(),
			"amount", event.Amount,
			"request_id", event.RequestID,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit domain event",
			"event", string(event.Type), "error", err)
	}
}
