package httpapi

import (
	"givepact/pkg/domain"
)

// TokenSupportResponse reports a token's acceptance flag.
type TokenSupportResponse struct {
	Address   domain.Address `json:"address"`
	Supported bool           `json:"supported"`
}

// TokenListResponse lists all accepted tokens.
type TokenListResponse struct {
	Tokens []domain.Address `json:"tokens"`
}

// DonationIDsResponse lists ledger ids for a charity or donor.
type DonationIDsResponse struct {
	DonationIDs []domain.DonationID `json:"donation_ids"`
}

// ContributionResponse reports a donor's cumulative contribution to one
// charity.
type ContributionResponse struct {
	Charity domain.Address `json:"charity"`
	Donor   domain.Address `json:"donor"`
	Amount  uint64         `json:"amount"`
}

// CredentialIDResponse carries a donor's credential id; 0 means the donor
// holds none.
type CredentialIDResponse struct {
	CredentialID domain.CredentialID `json:"credential_id"`
}

// DescriptorResponse carries the rendered credential descriptor data URI.
type DescriptorResponse struct {
	Descriptor string `json:"descriptor"`
}

// HealthResponse reports overall status and per-dependency results.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
