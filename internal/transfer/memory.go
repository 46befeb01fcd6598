package transfer

import (
	"context"
	"fmt"
	"sync"

	"givepact/pkg/domain"
)

type accountKey struct {
	token  domain.Address
	holder domain.Address
}

// Bank is an in-memory Mover with per-token balances. It supports failure
// injection so service tests can exercise the transfer-failed path and the
// reentrancy defense.
type Bank struct {
	mu       sync.Mutex
	balances map[accountKey]uint64

	// failNext, when set, rejects the next transfer and clears itself.
	failNext bool
	// hook, when set, runs inside TransferFrom before balances move. Tests use
	// it to simulate a reentrant call arriving while control is outside the
	// core.
	hook func(ctx context.Context)
}

func NewBank() *Bank {
	return &Bank{balances: make(map[accountKey]uint64)}
}

// Deposit credits an account. Test and dev seeding only.
func (b *Bank) Deposit(token, holder domain.Address, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[accountKey{token: token, holder: holder}] += amount
}

// Balance returns the current balance of an account.
func (b *Bank) Balance(token, holder domain.Address) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[accountKey{token: token, holder: holder}]
}

// FailNext makes the next transfer fail with ErrTransferRejected.
func (b *Bank) FailNext() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = true
}

// SetHook installs a callback invoked at the start of every transfer.
func (b *Bank) SetHook(hook func(ctx context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = hook
}

func (b *Bank) TransferFrom(ctx context.Context, token, from, to domain.Address, amount uint64) error {
	b.mu.Lock()
	hook := b.hook
	b.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failNext {
		b.failNext = false
		return ErrTransferRejected
	}

	src := accountKey{token: token, holder: from}
	if b.balances[src] < amount {
		return fmt.Errorf("%w: insufficient balance", ErrTransferRejected)
	}
	b.balances[src] -= amount
	b.balances[accountKey{token: token, holder: to}] += amount
	return nil
}
