package domain

import dErrors "givepact/pkg/domain-errors"

// Named validation conditions shared across modules. Services return these
// directly (or wrapped) so callers can branch with errors.Is.
var (
	// ErrInvalidAddress rejects a zero or malformed address where a real
	// identity is required.
	ErrInvalidAddress = dErrors.New(dErrors.CodeValidation, "invalid address")
	// ErrInvalidAmount rejects a zero amount.
	ErrInvalidAmount = dErrors.New(dErrors.CodeValidation, "invalid amount")
	// ErrInvalidMetadata rejects an empty metadata pointer where one is required.
	ErrInvalidMetadata = dErrors.New(dErrors.CodeValidation, "invalid metadata pointer")
)
