package models

import (
	"time"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
)

// Named conditions for the donation ledger.
var (
	// ErrTokenNotSupported rejects donations in a token the registry does not
	// accept.
	ErrTokenNotSupported = dErrors.New(dErrors.CodeUnprocessable, "token not supported")
	// ErrTransferFailed marks a declined or failed external value transfer.
	// The enclosing operation aborts with no state mutated.
	ErrTransferFailed = dErrors.New(dErrors.CodeUnavailable, "transfer failed")
	// ErrDonationNotFound is returned for lookups of ids the ledger never
	// assigned.
	ErrDonationNotFound = dErrors.New(dErrors.CodeNotFound, "donation not found")
)

// DonationRecord is one immutable entry in the append-only ledger. Ids are
// assigned sequentially starting at 0 and are never reused; records are never
// deleted.
type DonationRecord struct {
	ID        domain.DonationID `json:"id"`
	Donor     domain.Address    `json:"donor"`
	Charity   domain.Address    `json:"charity"`
	Amount    uint64            `json:"amount"`
	Token     domain.Address    `json:"token"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}
