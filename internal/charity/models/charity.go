package models

import (
	"strings"
	"time"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
)

// Named conditions for the charity registry. Services return these so callers
// can branch with errors.Is.
var (
	// ErrAlreadyRegistered rejects a second registration for the same identity.
	ErrAlreadyRegistered = dErrors.New(dErrors.CodeConflict, "charity already registered")
	// ErrNotRegistered marks an operation against an unknown charity.
	ErrNotRegistered = dErrors.New(dErrors.CodeNotFound, "charity not registered")
	// ErrNotVerified rejects donations to a charity that has not been verified.
	ErrNotVerified = dErrors.New(dErrors.CodeUnprocessable, "charity not verified")
	// ErrAlreadyVerified rejects a repeated verification.
	ErrAlreadyVerified = dErrors.New(dErrors.CodeConflict, "charity already verified")
)

// Charity is the registry record for a charitable organization.
//
// Invariants:
//   - Address, Name, and MetadataPointer are non-empty
//   - Verified transitions false→true exactly once; there is no un-verify
//   - TotalDonations and DonorCount only grow, and only through the donation
//     ledger's contribution recording
//   - CreatedAt is immutable after construction
//
// The per-donor cumulative contribution lives in its own (charity, donor)
// relation owned by the store, not inside this record, so the entity stays
// bounded no matter how many donors a charity attracts.
type Charity struct {
	Address         domain.Address `json:"address"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	MetadataPointer string         `json:"metadata_pointer"`
	Verified        bool           `json:"verified"`
	TotalDonations  uint64         `json:"total_donations"`
	DonorCount      uint64         `json:"donor_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewCharity constructs an unverified charity record with zero aggregates.
func NewCharity(address domain.Address, name, description, metadataPointer string, now time.Time) (*Charity, error) {
	if address.IsZero() {
		return nil, domain.ErrInvalidAddress
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "charity name is required")
	}
	if strings.TrimSpace(metadataPointer) == "" {
		return nil, domain.ErrInvalidMetadata
	}
	return &Charity{
		Address:         address,
		Name:            name,
		Description:     strings.TrimSpace(description),
		MetadataPointer: metadataPointer,
		Verified:        false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// CanVerify checks whether the false→true verification transition is allowed.
// Use with ApplyVerification in Execute callbacks.
func (c *Charity) CanVerify() error {
	if c.Verified {
		return dErrors.New(dErrors.CodeInvariantViolation, "charity already verified")
	}
	return nil
}

// ApplyVerification marks the charity verified. Call CanVerify first.
func (c *Charity) ApplyVerification(now time.Time) {
	c.Verified = true
	c.UpdatedAt = now
}

// ApplyContribution folds a recorded donation into the aggregates. firstDonor
// is true when this donor had no prior contribution to this charity.
func (c *Charity) ApplyContribution(amount uint64, firstDonor bool, now time.Time) {
	c.TotalDonations += amount
	if firstDonor {
		c.DonorCount++
	}
	c.UpdatedAt = now
}
