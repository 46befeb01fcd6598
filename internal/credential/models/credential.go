package models

import (
	"time"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
)

// Named conditions for the credential issuer.
var (
	// ErrAlreadyMinted rejects a second mint for the same donor.
	ErrAlreadyMinted = dErrors.New(dErrors.CodeConflict, "credential already minted for donor")
	// ErrNotTransferable rejects any ownership change where both endpoints are
	// real addresses. Credentials are bound to their donor for life.
	ErrNotTransferable = dErrors.New(dErrors.CodeForbidden, "credential is not transferable")
	// ErrNoCredential marks a must-exist lookup for a donor without one.
	ErrNoCredential = dErrors.New(dErrors.CodeNotFound, "donor has no credential")
)

// Tier is the ordered reputation classification derived from a donor's
// cumulative donation total.
type Tier uint8

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
)

// Tier thresholds are inclusive lower bounds in the platform's base value
// unit, evaluated highest-first.
const (
	ThresholdSilver   uint64 = 500
	ThresholdGold     uint64 = 1000
	ThresholdPlatinum uint64 = 5000
	ThresholdDiamond  uint64 = 10000
)

// TierFor computes the tier for a cumulative donation total. Pure.
func TierFor(total uint64) Tier {
	switch {
	case total >= ThresholdDiamond:
		return TierDiamond
	case total >= ThresholdPlatinum:
		return TierPlatinum
	case total >= ThresholdGold:
		return TierGold
	case total >= ThresholdSilver:
		return TierSilver
	default:
		return TierBronze
	}
}

func (t Tier) String() string {
	switch t {
	case TierDiamond:
		return "Diamond"
	case TierPlatinum:
		return "Platinum"
	case TierGold:
		return "Gold"
	case TierSilver:
		return "Silver"
	default:
		return "Bronze"
	}
}

// MarshalJSON renders the tier by name; the numeric ordering is an internal
// detail.
func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Credential is a donor's non-transferable reputation record.
//
// Invariants:
//   - At most one credential exists per donor, created on the donor's first
//     successful donation
//   - Donor never changes after creation
//   - TotalDonated is monotonically non-decreasing
//   - Tier is always TierFor(TotalDonated), recomputed on every update
type Credential struct {
	ID              domain.CredentialID `json:"id"`
	Donor           domain.Address      `json:"donor"`
	TotalDonated    uint64              `json:"total_donated"`
	DonationCount   uint64              `json:"donation_count"`
	Tier            Tier                `json:"tier"`
	LastDonationAt  time.Time           `json:"last_donation_at"`
	MetadataPointer string              `json:"metadata_pointer"`
}

// NewCredential constructs a fresh credential with zero totals and the
// starting tier.
func NewCredential(id domain.CredentialID, donor domain.Address, metadataPointer string, now time.Time) *Credential {
	return &Credential{
		ID:              id,
		Donor:           donor,
		Tier:            TierBronze,
		LastDonationAt:  now,
		MetadataPointer: metadataPointer,
	}
}

// ApplyDonation folds a successful donation into the credential and recomputes
// the tier.
func (c *Credential) ApplyDonation(amount uint64, now time.Time) {
	c.TotalDonated += amount
	c.DonationCount++
	c.Tier = TierFor(c.TotalDonated)
	c.LastDonationAt = now
}

// AuthorizeOwnershipChange is the sole enforcement point for
// non-transferability. Mints (from zero) and burns (to zero) pass; any change
// between two real addresses fails. Every ownership-mutating pathway must call
// this, not only an explicit transfer entry point.
func AuthorizeOwnershipChange(from, to domain.Address) error {
	if !from.IsZero() && !to.IsZero() {
		return ErrNotTransferable
	}
	return nil
}
