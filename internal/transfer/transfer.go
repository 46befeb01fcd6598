// Package transfer defines the port to the external value-transfer primitive
// that moves donation funds. The core never touches balances directly: it asks
// the mover to pull `amount` of `token` from one address to another and treats
// any failure as terminal for the enclosing operation.
package transfer

import (
	"context"
	"errors"

	"givepact/pkg/domain"
)

// ErrTransferRejected is returned by movers when the underlying primitive
// declines the transfer (insufficient balance, missing allowance, frozen
// account). Callers map it to their own transfer-failed condition.
var ErrTransferRejected = errors.New("transfer rejected")

// Mover moves token value between addresses. Implementations are external
// collaborators (settlement rails, chain gateways); the in-memory Bank backs
// dev mode and tests.
type Mover interface {
	TransferFrom(ctx context.Context, token, from, to domain.Address, amount uint64) error
}
