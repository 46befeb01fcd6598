// Package domain holds the shared identity and identifier types used across
// modules. Keeping them here avoids import cycles between module packages and
// gives every store and service a single vocabulary for keys.
package domain

import (
	"fmt"
	"strings"
)

// Address identifies a participant in the platform: a donor, a charity, a
// token, or the treasury. Addresses are opaque to the core; we only require
// that they are non-empty and contain no whitespace. Hex-prefixed addresses
// are normalized to lower case so lookups are case-insensitive.
type Address string

// ZeroAddress is the absent endpoint in an ownership change: mints move a
// credential from ZeroAddress, burns would move it to ZeroAddress.
const ZeroAddress Address = ""

const maxAddressLen = 128

// ParseAddress validates and normalizes a raw address string.
func ParseAddress(raw string) (Address, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ZeroAddress, fmt.Errorf("address is empty")
	}
	if len(s) > maxAddressLen {
		return ZeroAddress, fmt.Errorf("address exceeds %d characters", maxAddressLen)
	}
	if strings.ContainsAny(s, " \t\n\r") {
		return ZeroAddress, fmt.Errorf("address contains whitespace")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = strings.ToLower(s)
	}
	return Address(s), nil
}

// IsZero reports whether the address is the zero (absent) address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}

// DonationID is the sequential identifier of a donation record. The id space
// starts at 0 and is strictly increasing over the lifetime of the ledger.
type DonationID uint64

// CredentialID identifies a reputation credential. Ids are assigned from 1;
// NoCredential is the sentinel returned by lookups when a donor holds none.
type CredentialID uint64

// NoCredential is the "donor has no credential" sentinel.
const NoCredential CredentialID = 0

// IsNone reports whether the id is the no-credential sentinel.
func (c CredentialID) IsNone() bool {
	return c == NoCredential
}
