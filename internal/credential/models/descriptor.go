package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Descriptor is the human/display projection of a credential. It lives
// outside the ledger's correctness surface; changing its shape never touches
// invariants.
type Descriptor struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Metadata    string                `json:"metadata,omitempty"`
	Attributes  []DescriptorAttribute `json:"attributes"`
}

type DescriptorAttribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// DescriptorFor builds the display descriptor for a credential. Pure.
func DescriptorFor(c *Credential) Descriptor {
	return Descriptor{
		Name:        fmt.Sprintf("Giving Reputation #%d", c.ID),
		Description: fmt.Sprintf("Non-transferable giving record for %s", c.Donor),
		Metadata:    c.MetadataPointer,
		Attributes: []DescriptorAttribute{
			{TraitType: "tier", Value: c.Tier.String()},
			{TraitType: "total_donated", Value: c.TotalDonated},
			{TraitType: "donation_count", Value: c.DonationCount},
			{TraitType: "last_donation_at", Value: c.LastDonationAt.UTC().Format("2006-01-02T15:04:05Z07:00")},
		},
	}
}

// DescriptorURI renders the descriptor as a base64 JSON data URI. Pure.
func DescriptorURI(c *Credential) (string, error) {
	payload, err := json.Marshal(DescriptorFor(c))
	if err != nil {
		return "", fmt.Errorf("marshal descriptor: %w", err)
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(payload), nil
}
